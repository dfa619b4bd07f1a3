package main

import (
	"VillageWars/internal/shared/logs"
	transportgrpc "VillageWars/internal/shared/transport/grpc"
	transporthttp "VillageWars/internal/shared/transport/http"
	simactor "VillageWars/internal/simulation/actor"
	"VillageWars/internal/simulation/actors"
	"VillageWars/internal/simulation/interfaces"
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP/WebSocket/gRPC 服务与定时结算",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*cfgPath)
		},
	}
}

func runServe(cfgPath string) error {
	conf, err := loadConfig(cfgPath, "villagewars")
	if err != nil {
		return err
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("storage", conf.Storage), zap.Any("game", conf.Game))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := buildContainer(ctx, conf, logs.Logger())
	if err != nil {
		return err
	}
	defer c.Close()

	runtime := simactor.NewRuntime(c.tick, c.clock, actors.Options{
		Interval: conf.Game.TickInterval,
		Timeout:  conf.Game.TickTimeout,
	}, c.log)
	defer runtime.Shutdown()

	module := interfaces.New(c.commands, c.queries, runtime, c.hub, c.clock, c.log)

	httpAddr := fmt.Sprintf("%s:%d", hostOr(conf.HTTPServer.Host), conf.HTTPServer.Port)
	httpServer := transporthttp.NewHttpServer(httpAddr, nil, c.log)
	module.HttpRegister(httpServer.Group())

	grpcAddr := fmt.Sprintf("%s:%d", hostOr(conf.GRPCServer.Host), conf.GRPCServer.Port)
	grpcServer := transportgrpc.NewServer(c.log)
	module.GRPCRegister(grpcServer)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen grpc %s: %w", grpcAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logs.Info("http server started", zap.String("addr", httpAddr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logs.Info("grpc server started", zap.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logs.Info("收到退出信号，准备优雅退出")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			grpcServer.Stop()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logs.Error("服务异常退出", zap.Error(err))
		return err
	}
	return nil
}

func hostOr(host string) string {
	if host == "" {
		return "0.0.0.0"
	}
	return host
}
