package notify

import (
	"VillageWars/internal/simulation/app"
	"VillageWars/internal/simulation/domain"
	"VillageWars/modules/kit/logx"
	"context"

	"go.uber.org/zap"
)

// Pusher 是按玩家推送的下游，ws.Hub 实现了它。
type Pusher interface {
	PushTo(playerID int64, name string, data any) int
}

// HubPublisher 把事件推给在线玩家，离线或队列满时直接丢弃。
type HubPublisher struct {
	pusher Pusher
	log    logx.Logger
}

func NewHubPublisher(p Pusher, log logx.Logger) *HubPublisher {
	if log == nil {
		log = logx.Nop()
	}
	return &HubPublisher{pusher: p, log: log}
}

func (h *HubPublisher) Publish(ctx context.Context, events []domain.Event) {
	for _, e := range events {
		payload := Payload(e)
		for _, pid := range e.Recipients() {
			if n := h.pusher.PushTo(pid, e.EventName(), payload); n == 0 {
				h.log.WithContext(ctx).Debug("event not delivered",
					zap.String("event", e.EventName()),
					zap.Int64("player_id", pid),
				)
			}
		}
	}
}

// LogPublisher 把每个事件写一条 INFO 日志。
type LogPublisher struct {
	log logx.Logger
}

func NewLogPublisher(log logx.Logger) *LogPublisher {
	if log == nil {
		log = logx.Nop()
	}
	return &LogPublisher{log: log}
}

func (l *LogPublisher) Publish(ctx context.Context, events []domain.Event) {
	lg := l.log.WithContext(ctx)
	for _, e := range events {
		lg.Info("event", zap.String("event", e.EventName()), zap.Int64s("recipients", e.Recipients()), zap.Any("payload", Payload(e)))
	}
}

// Multi 依次调用多个下游。
type Multi []app.EventPublisher

func (m Multi) Publish(ctx context.Context, events []domain.Event) {
	if len(events) == 0 {
		return
	}
	for _, p := range m {
		p.Publish(ctx, events)
	}
}
