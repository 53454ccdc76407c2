package services

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/transactions-backend/internal/dto"
	"github.com/GregMSThompson/transactions-backend/internal/models"
	"github.com/GregMSThompson/transactions-backend/pkg/helpers"
	"github.com/GregMSThompson/transactions-backend/pkg/logger"
)

type transactionQueryStore interface {
	Find(ctx context.Context, q dto.TransactionQuery) ([]models.Transaction, error)
	Count(ctx context.Context, q dto.TransactionQuery) (int64, error)
	SumPrice(ctx context.Context, q dto.TransactionQuery) (float64, error)
	CountByCategory(ctx context.Context, q dto.TransactionQuery) ([]dto.CategoryCount, error)
}

type queryService struct {
	store transactionQueryStore
	cache resultCache
}

func NewQueryService(store transactionQueryStore, cache resultCache) *queryService {
	return &queryService{store: store, cache: cache}
}

func monthQuery(month int) dto.TransactionQuery {
	from, to := monthWindow(month)
	return dto.TransactionQuery{From: from, To: to}
}

func (s *queryService) ListTransactions(ctx context.Context, args dto.ListTransactionsArgs) (dto.ListTransactionsResult, error) {
	if err := validateArgs(args); err != nil {
		return dto.ListTransactionsResult{}, err
	}

	key := fmt.Sprintf("list:m=%d:p=%d:pp=%d:s=%s", args.Month, args.Page, args.PerPage, url.QueryEscape(args.Search))
	return cached(ctx, s.cache, key, func(ctx context.Context) (dto.ListTransactionsResult, error) {
		return s.listTransactions(ctx, args)
	})
}

func (s *queryService) listTransactions(ctx context.Context, args dto.ListTransactionsArgs) (dto.ListTransactionsResult, error) {
	result := dto.ListTransactionsResult{Page: args.Page, PerPage: args.PerPage}

	q := monthQuery(args.Month)
	if args.Search != "" {
		q.Search = helpers.Ptr(args.Search)
	}

	total, err := s.store.Count(ctx, q)
	if err != nil {
		return result, err
	}

	q.Skip = (args.Page - 1) * args.PerPage
	q.Limit = args.PerPage
	txs, err := s.store.Find(ctx, q)
	if err != nil {
		return result, err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	result.Total = total
	result.Transactions = txs
	return result, nil
}

func (s *queryService) GetStatistics(ctx context.Context, args dto.MonthArgs) (dto.StatisticsResult, error) {
	if err := validateArgs(args); err != nil {
		return dto.StatisticsResult{}, err
	}
	return cached(ctx, s.cache, fmt.Sprintf("stats:m=%d", args.Month), func(ctx context.Context) (dto.StatisticsResult, error) {
		return s.statistics(ctx, args.Month)
	})
}

func (s *queryService) statistics(ctx context.Context, month int) (dto.StatisticsResult, error) {
	var result dto.StatisticsResult
	base := monthQuery(month)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.store.SumPrice(gctx, base)
		result.TotalSaleAmount = total
		return err
	})
	g.Go(func() error {
		q := base
		q.Sold = helpers.Ptr(true)
		n, err := s.store.Count(gctx, q)
		result.TotalSoldItems = n
		return err
	})
	g.Go(func() error {
		q := base
		q.Sold = helpers.Ptr(false)
		n, err := s.store.Count(gctx, q)
		result.TotalNotSoldItems = n
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.StatisticsResult{}, err
	}
	return result, nil
}

func (s *queryService) GetBarChart(ctx context.Context, args dto.MonthArgs) ([]dto.BarChartBucket, error) {
	if err := validateArgs(args); err != nil {
		return nil, err
	}
	return cached(ctx, s.cache, fmt.Sprintf("barchart:m=%d", args.Month), func(ctx context.Context) ([]dto.BarChartBucket, error) {
		return s.barChart(ctx, args.Month)
	})
}

// barChart counts every bucket concurrently; each goroutine owns one slot so
// the output keeps bucket declaration order.
func (s *queryService) barChart(ctx context.Context, month int) ([]dto.BarChartBucket, error) {
	base := monthQuery(month)
	out := make([]dto.BarChartBucket, len(priceBuckets))

	g, gctx := errgroup.WithContext(ctx)
	for i, b := range priceBuckets {
		out[i].Range = b.label
		g.Go(func() error {
			q := base
			q.MinPrice = helpers.Ptr(b.min)
			q.MaxPrice = b.max
			n, err := s.store.Count(gctx, q)
			if err != nil {
				return err
			}
			out[i].Count = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *queryService) GetPieChart(ctx context.Context, args dto.MonthArgs) ([]dto.CategoryCount, error) {
	if err := validateArgs(args); err != nil {
		return nil, err
	}
	return cached(ctx, s.cache, fmt.Sprintf("piechart:m=%d", args.Month), func(ctx context.Context) ([]dto.CategoryCount, error) {
		counts, err := s.store.CountByCategory(ctx, monthQuery(args.Month))
		if err != nil {
			return nil, err
		}
		if counts == nil {
			counts = []dto.CategoryCount{}
		}
		return counts, nil
	})
}

// GetCombined runs the four read operations for the same parameters and
// fails as a whole if any of them fails.
func (s *queryService) GetCombined(ctx context.Context, args dto.ListTransactionsArgs) (dto.CombinedResult, error) {
	log := logger.FromContext(ctx)
	if err := validateArgs(args); err != nil {
		return dto.CombinedResult{}, err
	}

	var result dto.CombinedResult
	monthArgs := dto.MonthArgs{Month: args.Month}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		result.Transactions, err = s.ListTransactions(gctx, args)
		return err
	})
	g.Go(func() (err error) {
		result.Statistics, err = s.GetStatistics(gctx, monthArgs)
		return err
	})
	g.Go(func() (err error) {
		result.BarChart, err = s.GetBarChart(gctx, monthArgs)
		return err
	})
	g.Go(func() (err error) {
		result.PieChart, err = s.GetPieChart(gctx, monthArgs)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("combined query failed", "month", args.Month, "error", err)
		return dto.CombinedResult{}, err
	}
	return result, nil
}
