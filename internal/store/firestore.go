package store

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/transactions-backend/internal/dto"
	"github.com/GregMSThompson/transactions-backend/internal/errs"
	"github.com/GregMSThompson/transactions-backend/internal/models"
	"github.com/GregMSThompson/transactions-backend/pkg/logger"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) collection() *firestore.CollectionRef {
	return s.client.Collection(collectionName)
}

func dbError(operation, message string, err error) *errs.DatabaseError {
	return errs.NewDatabaseErrorCode(operation, status.Code(err).String(), message, err)
}

func (s *transactionStore) Close() error {
	return s.client.Close()
}

func (s *transactionStore) DeleteAll(ctx context.Context) error {
	log := logger.FromContext(ctx)

	refs, err := s.collection().DocumentRefs(ctx).GetAll()
	if err != nil {
		return dbError("delete", "failed to list transactions for delete", err)
	}
	if len(refs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return dbError("delete", "failed to schedule transaction delete", err)
		}
		jobs = append(jobs, job)
	}

	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return dbError("delete", "failed to delete transaction", err)
		}
	}

	log.Debug("transactions deleted", "backend", "firestore", "rows", len(refs))
	return nil
}

func (s *transactionStore) InsertMany(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(txs))

	for _, t := range txs {
		t.DateOfSale = t.DateOfSale.UTC()
		job, err := bw.Create(s.collection().Doc(t.ID), t)
		if err != nil {
			bw.End()
			return dbError("create", "failed to schedule transaction insert", err)
		}
		jobs = append(jobs, job)
	}

	// Flush and close the writer, then wait on each job for errors.
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return dbError("create", "failed to insert transaction", err)
		}
	}

	return nil
}

// baseQuery pushes down every constraint Firestore can evaluate natively.
// Text search cannot be expressed and is left to matches.
func (s *transactionStore) baseQuery(q dto.TransactionQuery) firestore.Query {
	fq := s.collection().Query
	if !q.From.IsZero() {
		fq = fq.Where("dateOfSale", ">=", q.From.UTC())
	}
	if !q.To.IsZero() {
		fq = fq.Where("dateOfSale", "<", q.To.UTC())
	}
	if q.Sold != nil {
		fq = fq.Where("sold", "==", *q.Sold)
	}
	if q.MinPrice != nil {
		fq = fq.Where("price", ">=", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		fq = fq.Where("price", "<", *q.MaxPrice)
	}
	return fq
}

func (s *transactionStore) countAggregation(q dto.TransactionQuery) *firestore.AggregationQuery {
	fq := s.baseQuery(q)
	return fq.NewAggregationQuery().WithCount("count")
}

func (s *transactionStore) sumAggregation(q dto.TransactionQuery) *firestore.AggregationQuery {
	fq := s.baseQuery(q)
	return fq.NewAggregationQuery().WithSum("price", "total")
}

// stream walks every document for q in dateOfSale order, applying matches.
func (s *transactionStore) stream(ctx context.Context, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	iter := s.baseQuery(q).OrderBy("dateOfSale", firestore.Asc).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return dbError("read", "failed to query transactions", err)
		}
		var tx models.Transaction
		if err := doc.DataTo(&tx); err != nil {
			return dbError("read", "failed to parse transaction data", err)
		}
		if !matches(&tx, q) {
			continue
		}
		if err := handle(&tx); err != nil {
			return err
		}
	}
}

func (s *transactionStore) Find(ctx context.Context, q dto.TransactionQuery) ([]models.Transaction, error) {
	if hasSearch(q) {
		var all []models.Transaction
		if err := s.stream(ctx, q, func(tx *models.Transaction) error {
			all = append(all, *tx)
			return nil
		}); err != nil {
			return nil, err
		}
		return page(all, q.Skip, q.Limit), nil
	}

	fq := s.baseQuery(q).OrderBy("dateOfSale", firestore.Asc).OrderBy("id", firestore.Asc)
	if q.Skip > 0 {
		fq = fq.Offset(q.Skip)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}

	docs, err := fq.Documents(ctx).GetAll()
	if err != nil {
		return nil, dbError("read", "failed to list transactions", err)
	}
	out := make([]models.Transaction, 0, len(docs))
	for _, d := range docs {
		var tx models.Transaction
		if err := d.DataTo(&tx); err != nil {
			return nil, dbError("read", "failed to parse transaction data", err)
		}
		out = append(out, tx)
	}
	return out, nil
}

func (s *transactionStore) Count(ctx context.Context, q dto.TransactionQuery) (int64, error) {
	if hasSearch(q) {
		var n int64
		err := s.stream(ctx, q, func(*models.Transaction) error {
			n++
			return nil
		})
		return n, err
	}

	res, err := s.countAggregation(q).Get(ctx)
	if err != nil {
		return 0, dbError("read", "failed to count transactions", err)
	}
	return int64(aggregateNumber(res, "count")), nil
}

func (s *transactionStore) SumPrice(ctx context.Context, q dto.TransactionQuery) (float64, error) {
	if hasSearch(q) {
		var total float64
		err := s.stream(ctx, q, func(tx *models.Transaction) error {
			total += tx.Price
			return nil
		})
		return total, err
	}

	res, err := s.sumAggregation(q).Get(ctx)
	if err != nil {
		return 0, dbError("read", "failed to sum transaction prices", err)
	}
	return aggregateNumber(res, "total"), nil
}

// CountByCategory groups in Go since Firestore has no group-by aggregation.
func (s *transactionStore) CountByCategory(ctx context.Context, q dto.TransactionQuery) ([]dto.CategoryCount, error) {
	counts := map[string]int64{}
	if err := s.stream(ctx, q, func(tx *models.Transaction) error {
		counts[tx.Category]++
		return nil
	}); err != nil {
		return nil, err
	}

	out := make([]dto.CategoryCount, 0, len(counts))
	for category, n := range counts {
		out = append(out, dto.CategoryCount{Category: category, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// aggregateNumber reads an integer or double aggregation alias; missing and
// null values (sum over no documents) read as zero.
func aggregateNumber(res firestore.AggregationResult, alias string) float64 {
	v, ok := res[alias].(*firestorepb.Value)
	if !ok || v == nil {
		return 0
	}
	switch val := v.GetValueType().(type) {
	case *firestorepb.Value_IntegerValue:
		return float64(val.IntegerValue)
	case *firestorepb.Value_DoubleValue:
		return val.DoubleValue
	default:
		return 0
	}
}
