package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/GregMSThompson/transactions-backend/internal/dto"
	"github.com/GregMSThompson/transactions-backend/internal/models"
)

// fakeTransactionStore evaluates queries over an in-memory slice.
type fakeTransactionStore struct {
	mu      sync.Mutex
	txs     []models.Transaction
	err     error
	queries []dto.TransactionQuery
	calls   int

	// onCount runs inside every Count call, outside the lock.
	onCount func()
}

func (f *fakeTransactionStore) record(q dto.TransactionQuery) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	f.calls++
}

func (f *fakeTransactionStore) filter(q dto.TransactionQuery) []models.Transaction {
	var out []models.Transaction
	for _, tx := range f.txs {
		if !q.From.IsZero() && tx.DateOfSale.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && !tx.DateOfSale.Before(q.To) {
			continue
		}
		if q.Sold != nil && tx.Sold != *q.Sold {
			continue
		}
		if q.MinPrice != nil && tx.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && tx.Price >= *q.MaxPrice {
			continue
		}
		if q.Search != nil {
			s := strings.ToLower(*q.Search)
			if !strings.Contains(strings.ToLower(tx.Title), s) &&
				!strings.Contains(strings.ToLower(tx.Description), s) &&
				!strings.Contains(strconv.FormatFloat(tx.Price, 'f', -1, 64), s) {
				continue
			}
		}
		out = append(out, tx)
	}
	return out
}

func (f *fakeTransactionStore) Find(_ context.Context, q dto.TransactionQuery) ([]models.Transaction, error) {
	f.record(q)
	if f.err != nil {
		return nil, f.err
	}
	out := f.filter(q)
	if q.Skip >= len(out) {
		return []models.Transaction{}, nil
	}
	out = out[q.Skip:]
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeTransactionStore) Count(_ context.Context, q dto.TransactionQuery) (int64, error) {
	f.record(q)
	if f.onCount != nil {
		f.onCount()
	}
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.filter(q))), nil
}

func (f *fakeTransactionStore) SumPrice(_ context.Context, q dto.TransactionQuery) (float64, error) {
	f.record(q)
	if f.err != nil {
		return 0, f.err
	}
	var total float64
	for _, tx := range f.filter(q) {
		total += tx.Price
	}
	return total, nil
}

func (f *fakeTransactionStore) CountByCategory(_ context.Context, q dto.TransactionQuery) ([]dto.CategoryCount, error) {
	f.record(q)
	if f.err != nil {
		return nil, f.err
	}
	counts := map[string]int64{}
	for _, tx := range f.filter(q) {
		counts[tx.Category]++
	}
	out := make([]dto.CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, dto.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

type fakeCache struct {
	mu         sync.Mutex
	entries    map[string][]byte
	generation int64
	purged     int
	err        error
	genErr     error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (c *fakeCache) Generation(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, c.genErr
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *fakeCache) Purge(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purged++
	if c.err != nil {
		return c.err
	}
	c.generation++
	return nil
}
