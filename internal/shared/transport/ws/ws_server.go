package ws

import (
	"VillageWars/modules/kit/logx"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	outQueueSize = 256
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
)

// playerConn 把一条 websocket 绑定到玩家，读写各一个 goroutine。
type playerConn struct {
	conn      *websocket.Conn
	playerID  int64
	out       chan *Frame
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func newPlayerConn(wsConn *websocket.Conn, playerID int64, l logx.Logger) *playerConn {
	if l == nil {
		l = logx.Nop()
	}
	return &playerConn{
		conn:     wsConn,
		playerID: playerID,
		out:      make(chan *Frame, outQueueSize),
		done:     make(chan struct{}),
		log:      l,
	}
}

func (c *playerConn) PlayerID() int64 { return c.playerID }

func (c *playerConn) Addr() string {
	return c.conn.RemoteAddr().String()
}

// Push 非阻塞投递；队列满或连接已关闭时丢弃并返回 false，慢连接不能拖住 tick。
func (c *playerConn) Push(event string, data any) bool {
	return c.enqueue(&Frame{Event: event, Data: data})
}

func (c *playerConn) enqueue(f *Frame) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.out <- f:
		return true
	default:
		c.log.Warn("ws out queue full, drop frame",
			zap.String("event", f.Event),
			zap.Int64("player_id", c.playerID),
			zap.String("addr", c.Addr()),
		)
		return false
	}
}

func (c *playerConn) run() {
	go c.readLoop()
	go c.writeLoop()
}

func (c *playerConn) readLoop() {
	defer func() {
		if err := recover(); err != nil {
			c.log.Error("ws readLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		c.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws read", zap.Int64("player_id", c.playerID), zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var in Frame
		if err := json.Unmarshal(data, &in); err != nil {
			c.log.Warn("ws bad frame", zap.Int64("player_id", c.playerID), zap.Error(err))
			continue
		}
		if in.Event != EventHeartbeat {
			// 指令走 HTTP，ws 只做推送。
			c.log.Debug("ws ignore frame", zap.String("event", in.Event))
			continue
		}

		p := decodePing(in.Data)
		p.ServerMs = time.Now().UnixMilli()
		c.enqueue(&Frame{Seq: in.Seq, Event: EventHeartbeat, Data: p})
	}
}

func decodePing(raw any) ping {
	var p ping
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err == nil {
		_ = dec.Decode(raw)
	}
	return p
}

func (c *playerConn) writeLoop() {
	for {
		select {
		case f := <-c.out:
			c.write(f)
		case <-c.done:
			return
		}
	}
}

func (c *playerConn) write(f *Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		c.log.Error("ws marshal frame", zap.String("event", f.Event), zap.Error(err))
		return
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.log.Warn("ws write", zap.Int64("player_id", c.playerID), zap.Error(err))
		c.Close()
	}
}

func (c *playerConn) Close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
		close(c.done)
	})
}

func (c *playerConn) Done() <-chan struct{} {
	return c.done
}
