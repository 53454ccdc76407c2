package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/GregMSThompson/transactions-backend/internal/dto"
	"github.com/GregMSThompson/transactions-backend/internal/models"
	"github.com/GregMSThompson/transactions-backend/pkg/helpers"
)

// TransactionStore is implemented by every backend selectable through DATA_BACKEND.
type TransactionStore interface {
	DeleteAll(ctx context.Context) error
	InsertMany(ctx context.Context, txs []models.Transaction) error
	Find(ctx context.Context, q dto.TransactionQuery) ([]models.Transaction, error)
	Count(ctx context.Context, q dto.TransactionQuery) (int64, error)
	SumPrice(ctx context.Context, q dto.TransactionQuery) (float64, error)
	CountByCategory(ctx context.Context, q dto.TransactionQuery) ([]dto.CategoryCount, error)
	Close() error
}

const collectionName = "transactions"

// priceText is the textual form of a price used for search matching.
func priceText(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// matches reports whether tx satisfies every non-date constraint of q.
// Backends that cannot express a constraint natively filter with it in Go.
func matches(tx *models.Transaction, q dto.TransactionQuery) bool {
	if q.Sold != nil && tx.Sold != *q.Sold {
		return false
	}
	if q.MinPrice != nil && tx.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && tx.Price >= *q.MaxPrice {
		return false
	}
	if !hasSearch(q) {
		return true
	}
	needle := strings.ToLower(helpers.Value(q.Search))
	return strings.Contains(strings.ToLower(tx.Title), needle) ||
		strings.Contains(strings.ToLower(tx.Description), needle) ||
		strings.Contains(priceText(tx.Price), needle)
}

func hasSearch(q dto.TransactionQuery) bool {
	return helpers.Value(q.Search) != ""
}

// page applies skip/limit to an already filtered slice.
func page(txs []models.Transaction, skip, limit int) []models.Transaction {
	if skip >= len(txs) {
		return []models.Transaction{}
	}
	txs = txs[skip:]
	if limit > 0 && limit < len(txs) {
		txs = txs[:limit]
	}
	return txs
}
