package repository

import (
	"context"
	"fmt"

	"github.com/smallbiznis/billium/internal/config"
	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/smallbiznis/billium/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type StoreParams struct {
	fx.In

	Lc  fx.Lifecycle
	Cfg config.Config
	Log *zap.Logger
}

// NewStore opens the record store selected by STORAGE_DRIVER.
func NewStore(p StoreParams) (domain.Store, error) {
	cfg := p.Cfg
	compress := cfg.Storage.Compress

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return NewMemoryStore(compress), nil
	case config.StorageRedis:
		client, err := NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		p.Lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				_ = ctx
				return client.Close()
			},
		})
		return NewRedisStore(client, compress), nil
	case config.StorageSQLite, config.StoragePostgres, config.StorageMySQL:
		conn, err := db.New(db.Params{Lc: p.Lc, Cfg: cfg, Log: p.Log})
		if err != nil {
			return nil, err
		}
		return NewGormStore(conn, compress)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
