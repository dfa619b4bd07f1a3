package interfaces

import (
	"VillageWars/internal/shared/clock"
	"VillageWars/internal/shared/transport/ws"
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/infra/notify"
	"VillageWars/internal/simulation/interfaces/handler"
	"VillageWars/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
)

var _ notify.Pusher = (*ws.Hub)(nil)

type Module struct {
	HTTP *handler.HttpHandler
	Tick *handler.TickHandler
	hub  *ws.Hub
}

// New 组装接口层。ticker 为空时 gRPC 不注册结算入口。
func New(commands *app.CommandService, queries *app.QueryService, ticker handler.Ticker,
	hub *ws.Hub, clk clock.Clock, log logx.Logger) *Module {
	m := &Module{
		HTTP: handler.NewHttpHandler(commands, queries, log),
		hub:  hub,
	}
	if ticker != nil {
		m.Tick = handler.NewTickHandler(ticker, clk, log)
	}
	return m
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.HTTP.RegisterRoutes(g)
	if m.hub != nil {
		g.GET("/ws", gin.WrapH(m.hub))
	}
}

func (m *Module) GRPCRegister(s grpc.ServiceRegistrar) {
	if m.Tick != nil {
		s.RegisterService(&handler.TickServiceDesc, m.Tick)
	}
}
