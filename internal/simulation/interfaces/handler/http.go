package handler

import (
	"VillageWars/internal/shared/transport"
	"VillageWars/internal/shared/transport/http/middleware"
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/interfaces/dto"
	"VillageWars/modules/kit/logx"
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HttpHandler struct {
	commands *app.CommandService
	queries  *app.QueryService
	log      logx.Logger
}

func NewHttpHandler(commands *app.CommandService, queries *app.QueryService, log logx.Logger) *HttpHandler {
	if log == nil {
		log = logx.Nop()
	}
	return &HttpHandler{commands: commands, queries: queries, log: log}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	g := group.Group("", middleware.Auth())

	g.POST("/villages", h.FoundVillage)
	g.GET("/villages/:id", h.Village)
	g.POST("/villages/:id/buildings/:bid/upgrade", h.UpgradeBuilding)
	g.POST("/villages/:id/training", h.Train)
	g.DELETE("/queue/:id", h.CancelQueueEntry)

	g.POST("/movements", h.CreateMovement)
	g.DELETE("/movements/:id", h.CancelMovement)

	g.GET("/reports/:id", h.Report)
	g.POST("/battles/simulate", h.SimulateBattle)
}

// ============ Villages ============

func (h *HttpHandler) FoundVillage(c *gin.Context) {
	ctx := c.Request.Context()
	pid, _ := middleware.PlayerID(c)

	var req dto.FoundVillageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	id, err := h.commands.FoundVillage(ctx, app.FoundVillageCmd{
		PlayerID: pid, WorldID: req.WorldID, Name: req.Name, X: req.X, Y: req.Y,
	})
	if err != nil {
		h.error(ctx, c, "found village", err)
		return
	}
	h.ok(c, dto.IDResp{ID: id})
}

func (h *HttpHandler) Village(c *gin.Context) {
	ctx := c.Request.Context()
	pid, _ := middleware.PlayerID(c)
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.queries.Village(ctx, id)
	if err != nil {
		h.error(ctx, c, "village view", err)
		return
	}
	if view.Village.PlayerID != pid {
		h.error(ctx, c, "village view", domain.ErrNotOwner.WithData("village_id", id))
		return
	}
	h.ok(c, dto.NewVillageResp(view))
}

func (h *HttpHandler) UpgradeBuilding(c *gin.Context) {
	ctx := c.Request.Context()
	pid, _ := middleware.PlayerID(c)
	villageID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	buildingID, ok := h.pathID(c, "bid")
	if !ok {
		return
	}

	entryID, err := h.commands.EnqueueBuildingUpgrade(ctx, pid, villageID, buildingID)
	if err != nil {
		h.error(ctx, c, "enqueue upgrade", err)
		return
	}
	h.ok(c, dto.IDResp{ID: entryID})
}

func (h *HttpHandler) Train(c *gin.Context) {
	ctx := c.Request.Context()
	pid, _ := middleware.PlayerID(c)
	villageID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dto.TrainReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	entryID, err := h.commands.EnqueueTraining(ctx, pid, villageID, domain.UnitKind(req.Unit), req.Quantity)
	if err != nil {
		h.error(ctx, c, "enqueue training", err)
		return
	}
	h.ok(c, dto.IDResp{ID: entryID})
}

func (h *HttpHandler) CancelQueueEntry(c *gin.Context) {
	ctx := c.Request.Context()
	pid, _ := middleware.PlayerID(c)
	entryID, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	res, err := h.commands.CancelQueueEntry(ctx, pid, entryID)
	if err != nil {
		h.error(ctx, c, "cancel queue entry", err)
		return
	}
	h.ok(c, dto.CancelQueueResp{Kind: string(res.Kind), Refund: res.Refund.Map()})
}

// ============ Movements ============

func (h *HttpHandler) CreateMovement(c *gin.Context) {
	ctx := c.Request.Context()
	pid, _ := middleware.PlayerID(c)

	var req dto.CreateMovementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	id, err := h.commands.CreateMovement(ctx, app.CreateMovementCmd{
		PlayerID: pid,
		OriginID: req.OriginID,
		DestID:   req.DestID,
		Kind:     domain.MovementKind(req.Kind),
		Roster:   dto.RosterOf(req.Roster),
	})
	if err != nil {
		h.error(ctx, c, "create movement", err)
		return
	}
	h.ok(c, dto.IDResp{ID: id})
}

func (h *HttpHandler) CancelMovement(c *gin.Context) {
	ctx := c.Request.Context()
	pid, _ := middleware.PlayerID(c)
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.commands.CancelMovement(ctx, pid, id); err != nil {
		h.error(ctx, c, "cancel movement", err)
		return
	}
	h.ok(c, nil)
}

// ============ Reports ============

func (h *HttpHandler) Report(c *gin.Context) {
	ctx := c.Request.Context()
	pid, _ := middleware.PlayerID(c)
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	rep, err := h.queries.Report(ctx, id)
	if err != nil {
		h.error(ctx, c, "battle report", err)
		return
	}
	if rep.AttackerPlayerID != pid && rep.DefenderPlayerID != pid {
		h.error(ctx, c, "battle report", domain.ErrNotOwner.WithData("report_id", id))
		return
	}
	h.ok(c, dto.NewReportResp(rep))
}

func (h *HttpHandler) SimulateBattle(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.SimulateBattleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	out, err := h.queries.SimulateBattle(dto.RosterOf(req.Attacker), dto.RosterOf(req.Defender), req.DefenseBonus)
	if err != nil {
		h.error(ctx, c, "simulate battle", err)
		return
	}
	h.ok(c, dto.NewOutcomeResp(out))
}

// ============ Response Helpers ============

func (h *HttpHandler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, transport.InvalidParam, "参数有误")
		return 0, false
	}
	return id, true
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, dto.Success(data))
}

func (h *HttpHandler) fail(c *gin.Context, code transport.BizCode, msg string) {
	c.JSON(nethttp.StatusOK, dto.Error(code, msg, ""))
}

// error 每个请求只打印一次错误日志。
func (h *HttpHandler) error(ctx context.Context, c *gin.Context, action string, err error) {
	code, msg, reason, biz := classify(err)
	if reason != "" {
		transport.SetErrorReason(ctx, reason)
	}
	if biz {
		logx.ReportBiz(ctx, h.log, logx.NewBizLog(action, reason, msg), zap.Int("biz_code", int(code)))
	} else {
		logx.ReportSysError(ctx, h.log, logx.NewSysLog(action, err))
	}
	c.JSON(nethttp.StatusOK, dto.Error(code, msg, reason))
}
