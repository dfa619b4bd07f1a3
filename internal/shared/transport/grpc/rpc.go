package grpc

import (
	"VillageWars/modules/kit/logx"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// NewServer 创建带 access 日志拦截器的 grpc server，extra 追加在其后。
func NewServer(log logx.Logger, extra ...grpc.UnaryServerInterceptor) *grpc.Server {
	unary := append([]grpc.UnaryServerInterceptor{UnaryServerAccessInterceptor(log)}, extra...)
	return grpc.NewServer(grpc.ChainUnaryInterceptor(unary...))
}

// Dial 建立到 target 的连接，自动透传 trace/span。
func Dial(target string, extra ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(UnaryClientTraceInterceptor()),
	}
	opts = append(opts, extra...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", target, err)
	}
	return conn, nil
}
