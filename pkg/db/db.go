package db

import (
	"context"
	"time"

	"github.com/smallbiznis/billium/internal/config"
	obslogger "github.com/smallbiznis/billium/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Lc  fx.Lifecycle
	Cfg config.Config
	Log *zap.Logger
}

// New opens the database selected by the configuration and closes it when the
// application stops.
func New(p Params) (*gorm.DB, error) {
	db, err := Open(p.Cfg, p.Log)
	if err != nil {
		return nil, err
	}

	p.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			p.Log.Named("db").Debug("closing database", zap.String("type", p.Cfg.DBType))
			return sqlDB.Close()
		},
	})
	return db, nil
}

func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: obslogger.NewGormLogger(log, obslogger.DefaultGormLoggerConfig()),
	})
	if err != nil {
		return nil, err
	}
	if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName(cfg.DBName))); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConn)
	}
	if cfg.DBMaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConn)
	}
	if cfg.DBConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Second)
	}
	if cfg.DBConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTime) * time.Second)
	}
	return db, nil
}
