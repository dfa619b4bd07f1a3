package handler

import (
	"VillageWars/internal/shared/clock"
	"VillageWars/internal/simulation/app"
	"VillageWars/modules/kit/logx"
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	TickServiceName = "villagewars.simulation.v1.TickService"
	runTickMethod   = "/" + TickServiceName + "/RunTick"
)

// Ticker 由 TickService 或 actor 运行时实现。
type Ticker interface {
	RunTick(ctx context.Context, now time.Time) (app.TickSummary, error)
}

type TickServer interface {
	RunTick(ctx context.Context, at *timestamppb.Timestamp) (*structpb.Struct, error)
}

// TickServiceDesc 运维侧手动触发一次结算。请求为空时间戳表示按服务端当前时间。
var TickServiceDesc = grpc.ServiceDesc{
	ServiceName: TickServiceName,
	HandlerType: (*TickServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RunTick", Handler: runTickHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "simulation/tick.proto",
}

func runTickHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(timestamppb.Timestamp)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TickServer).RunTick(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: runTickMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TickServer).RunTick(ctx, req.(*timestamppb.Timestamp))
	}
	return interceptor(ctx, in, info, handler)
}

type TickClient struct {
	cc grpc.ClientConnInterface
}

func NewTickClient(cc grpc.ClientConnInterface) *TickClient {
	return &TickClient{cc: cc}
}

func (c *TickClient) RunTick(ctx context.Context, at *timestamppb.Timestamp, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, runTickMethod, at, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type TickHandler struct {
	ticker Ticker
	clock  clock.Clock
	log    logx.Logger
}

func NewTickHandler(ticker Ticker, clk clock.Clock, log logx.Logger) *TickHandler {
	if clk == nil {
		clk = clock.System{}
	}
	if log == nil {
		log = logx.Nop()
	}
	return &TickHandler{ticker: ticker, clock: clk, log: log}
}

func (h *TickHandler) RunTick(ctx context.Context, at *timestamppb.Timestamp) (*structpb.Struct, error) {
	now := h.clock.Now()
	if at.GetSeconds() != 0 || at.GetNanos() != 0 {
		if err := at.CheckValid(); err != nil {
			return nil, toRPCError(app.ErrReqParamERR.WithCause(err))
		}
		now = at.AsTime()
	}

	sum, err := h.ticker.RunTick(ctx, now)
	if err != nil {
		logx.ReportSysError(ctx, h.log, logx.NewSysLog("run tick", err), zap.Time("now", now))
		return nil, toRPCError(err)
	}
	return SummaryStruct(sum)
}

func SummaryStruct(sum app.TickSummary) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"now":                sum.Now.UTC().Format(time.RFC3339Nano),
		"resources_updated":  sum.ResourcesUpdated,
		"queues_completed":   sum.QueuesCompleted,
		"movements_resolved": sum.MovementsResolved,
		"battles_resolved":   sum.BattlesResolved,
		"failures":           sum.Failures,
		"duration_ms":        sum.Duration.Milliseconds(),
	})
}
