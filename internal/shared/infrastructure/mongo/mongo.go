package mongo

import (
	"VillageWars/internal/shared/serverconfig"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	defaultConnectTimeout = 3 * time.Second
	defaultDatabase       = "village_wars"
)

// Client 绑定配置里的库名，业务只拿 DB()。
type Client struct {
	raw     *mongo.Client
	dbName  string
	timeout time.Duration
}

// Open 连接并 ping 一次，失败时断开后返回。
func Open(ctx context.Context, cfg serverconfig.MongoDBConfig, l *zap.Logger) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongodb uri is empty")
	}
	if l == nil {
		l = zap.NewNop()
	}
	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	dbName := cfg.Database
	if dbName == "" {
		dbName = defaultDatabase
	}

	raw, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err = raw.Ping(pingCtx, nil); err != nil {
		_ = raw.Disconnect(context.Background())
		return nil, err
	}

	l.Info("open mongodb success", zap.String("database", dbName))
	return &Client{raw: raw, dbName: dbName, timeout: timeout}, nil
}

func (c *Client) DB() *mongo.Database {
	return c.raw.Database(c.dbName)
}

func (c *Client) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	_ = c.raw.Disconnect(ctx)
}
