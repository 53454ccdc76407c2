package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/GregMSThompson/transactions-backend/internal/cache"
	"github.com/GregMSThompson/transactions-backend/internal/config"
	"github.com/GregMSThompson/transactions-backend/internal/store"
	"github.com/GregMSThompson/transactions-backend/pkg/logger"
)

type Bootstrap struct {
	Log          *slog.Logger
	Transactions store.TransactionStore
	Cache        *cache.Client
}

// Run builds the logger, opens the configured store and connects the optional cache.
// Log is always set, even when an error is returned; anything opened before the
// failure is closed again.
func Run(cfg *config.Config) (bs *Bootstrap, err error) {
	applicationCtx := context.Background()
	bs = new(Bootstrap)
	defer func() {
		if err != nil {
			if cerr := bs.Close(); cerr != nil {
				bs.Log.Error("failed to release resources after bootstrap error", "error", cerr)
			}
			bs.Transactions, bs.Cache = nil, nil
		}
	}()

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	if err = cfg.Validate(); err != nil {
		return bs, err
	}

	bs.Transactions, err = InitStore(applicationCtx, cfg)
	if err != nil {
		return bs, err
	}
	bs.Log.Info("store initialized", "backend", cfg.DataBackend)

	if cfg.CacheEnabled() {
		bs.Cache, err = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			return bs, err
		}
		bs.Log.Info("result cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL.String())
	}

	return bs, nil
}

func (bs *Bootstrap) Close() error {
	var errs []error
	if bs.Transactions != nil {
		errs = append(errs, bs.Transactions.Close())
	}
	errs = append(errs, bs.Cache.Close())
	return errors.Join(errs...)
}
