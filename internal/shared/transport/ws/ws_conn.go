package ws

// Frame 是上下行共用的消息帧：上行只认心跳，下行是心跳回包与事件推送。
type Frame struct {
	Seq   int64  `json:"seq,omitempty"`
	Event string `json:"event"`
	Code  int    `json:"code"`
	Data  any    `json:"data,omitempty"`
}

// Conn 是 Hub 持有的一条玩家连接。
type Conn interface {
	PlayerID() int64
	Addr() string
	Push(event string, data any) bool
	Close()
	// Done 在连接关闭时被关闭
	Done() <-chan struct{}
}

// ping 是心跳负载，回包时补上服务端毫秒时间。
type ping struct {
	ClientMs int64 `json:"client_ms"`
	ServerMs int64 `json:"server_ms"`
}

const EventHeartbeat = "heartbeat"
