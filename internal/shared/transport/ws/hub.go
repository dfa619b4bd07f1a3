package ws

import (
	"VillageWars/internal/shared/security"
	"VillageWars/modules/kit/logx"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub 按玩家维护在线连接，供事件推送使用。同一玩家可多端在线。
type Hub struct {
	mu       sync.RWMutex
	conns    map[int64]map[Conn]struct{}
	upgrader websocket.Upgrader
	log      logx.Logger
}

func NewHub(l logx.Logger) *Hub {
	if l == nil {
		l = logx.Nop()
	}
	return &Hub{
		conns: make(map[int64]map[Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: l,
	}
}

// ServeHTTP 升级连接，token 从 query 参数 token 读取。
func (h *Hub) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	claims, err := security.ParseToken(req.URL.Query().Get("token"))
	if err != nil {
		http.Error(resp, "unauthorized", http.StatusUnauthorized)
		return
	}

	wsConn, err := h.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		h.log.Warn("websocket upgrade error", zap.Error(err))
		return
	}

	conn := newPlayerConn(wsConn, claims.PlayerID, h.log)
	h.Register(conn)
	conn.run()
	h.log.Info("websocket connected", zap.Int64("player_id", claims.PlayerID), zap.String("addr", conn.Addr()))
}

// Register 登记连接，连接关闭时自动摘除。
func (h *Hub) Register(conn Conn) {
	playerID := conn.PlayerID()
	h.mu.Lock()
	set := h.conns[playerID]
	if set == nil {
		set = make(map[Conn]struct{})
		h.conns[playerID] = set
	}
	set[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-conn.Done()
		h.unregister(playerID, conn)
	}()
}

func (h *Hub) unregister(playerID int64, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.conns[playerID]
	delete(set, conn)
	if len(set) == 0 {
		delete(h.conns, playerID)
	}
}

// PushTo 向玩家的全部在线连接投递，返回成功投递的连接数。
func (h *Hub) PushTo(playerID int64, event string, data any) int {
	h.mu.RLock()
	targets := make([]Conn, 0, len(h.conns[playerID]))
	for c := range h.conns[playerID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	n := 0
	for _, c := range targets {
		if c.Push(event, data) {
			n++
		}
	}
	return n
}

func (h *Hub) Online(playerID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[playerID])
}

// Close 断开全部连接，服务退出时调用。
func (h *Hub) Close() {
	h.mu.RLock()
	var all []Conn
	for _, set := range h.conns {
		for c := range set {
			all = append(all, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range all {
		c.Close()
	}
}
