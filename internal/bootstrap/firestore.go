package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/transactions-backend/internal/config"
	"github.com/GregMSThompson/transactions-backend/internal/store"
)

func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	return firestore.NewClient(ctx, projectID)
}

// InitStore opens the transaction store named by cfg.DataBackend.
func InitStore(ctx context.Context, cfg *config.Config) (store.TransactionStore, error) {
	switch cfg.DataBackend {
	case config.BackendFirestore:
		client, err := InitFirestore(ctx, cfg.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		return store.NewTransactionStore(client), nil
	case config.BackendPostgres:
		s, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendSQLite:
		s, err := store.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported data backend %q", cfg.DataBackend)
	}
}
