package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/GregMSThompson/transactions-backend/internal/dto"
	"github.com/GregMSThompson/transactions-backend/internal/errs"
	"github.com/GregMSThompson/transactions-backend/internal/models"
	"github.com/GregMSThompson/transactions-backend/pkg/logger"
)

const seededMessage = "Database initialized with seed data"

type seedSource interface {
	FetchTransactions(ctx context.Context) ([]dto.SeedTransaction, error)
}

type transactionSeedStore interface {
	DeleteAll(ctx context.Context) error
	InsertMany(ctx context.Context, txs []models.Transaction) error
}

type seedService struct {
	source seedSource
	store  transactionSeedStore
	cache  resultCache
}

func NewSeedService(source seedSource, store transactionSeedStore, cache resultCache) *seedService {
	return &seedService{source: source, store: store, cache: cache}
}

// Initialize replaces the whole store with the seed dataset. Delete and insert
// are separate steps: if insert fails the store is left empty or partial.
func (s *seedService) Initialize(ctx context.Context) (dto.InitializeResult, error) {
	log := logger.FromContext(ctx)

	records, err := s.source.FetchTransactions(ctx)
	if err != nil {
		log.Error("failed to fetch seed data", "error", err)
		return dto.InitializeResult{}, err
	}

	txs, err := toTransactions(records)
	if err != nil {
		return dto.InitializeResult{}, err
	}

	if err := s.store.DeleteAll(ctx); err != nil {
		log.Error("failed to clear transactions", "error", err)
		return dto.InitializeResult{}, err
	}
	defer s.purgeCache(ctx)

	if err := s.store.InsertMany(ctx, txs); err != nil {
		log.Error("failed to insert seed data after clearing store", "records", len(txs), "error", err)
		return dto.InitializeResult{}, err
	}

	log.Info("store seeded", "records", len(txs))
	return dto.InitializeResult{Message: seededMessage, Count: len(txs)}, nil
}

func (s *seedService) purgeCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Purge(ctx); err != nil {
		logger.FromContext(ctx).Warn("failed to purge result cache", "error", err)
	}
}

func toTransactions(records []dto.SeedTransaction) ([]models.Transaction, error) {
	txs := make([]models.Transaction, 0, len(records))
	for i, r := range records {
		if r.DateOfSale.IsZero() {
			return nil, errs.NewExternalServiceError("seed", fmt.Sprintf("seed record %d has no dateOfSale", i), false, nil)
		}
		txs = append(txs, models.Transaction{
			ID:          uuid.NewString(),
			Title:       r.Title,
			Description: r.Description,
			Price:       r.Price,
			Category:    r.Category,
			Sold:        r.Sold,
			DateOfSale:  r.DateOfSale.UTC(),
			Image:       r.Image,
		})
	}
	return txs, nil
}
