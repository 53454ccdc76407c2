package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/GregMSThompson/transactions-backend/internal/dto"
	"github.com/GregMSThompson/transactions-backend/internal/errs"
	"github.com/GregMSThompson/transactions-backend/internal/models"
	"github.com/GregMSThompson/transactions-backend/pkg/logger"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// rebind rewrites ? placeholders into $n for postgres.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// priceText renders price the way priceText in Go does: whole prices have no
// fractional part. SQLite prints REAL 150 as "150.0"; Postgres already prints "150".
func (d Dialect) priceText() string {
	if d == DialectPostgres {
		return `CAST(price AS TEXT)`
	}
	return `(CASE WHEN price = CAST(price AS INTEGER) THEN CAST(CAST(price AS INTEGER) AS TEXT) ELSE CAST(price AS TEXT) END)`
}

const selectColumns = `id, title, description, price, category, sold, date_of_sale, image`

type sqlStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLiteStore opens (creating if needed) a SQLite database file and migrates it.
func NewSQLiteStore(dbPath string) (*sqlStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	dsn := dbPath + "?_pragma=busy_timeout(5000)"
	return openSQLStore(DialectSQLite, dsn)
}

// NewPostgresStore connects to PostgreSQL using a lib/pq DSN and migrates it.
func NewPostgresStore(dsn string) (*sqlStore, error) {
	return openSQLStore(DialectPostgres, dsn)
}

func openSQLStore(d Dialect, dsn string) (*sqlStore, error) {
	db, err := sql.Open(d.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(d, dsn); err != nil {
		db.Close()
		return nil, err
	}

	return &sqlStore{db: db, dialect: d}, nil
}

func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *sqlStore) DeleteAll(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions`)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete transactions", err)
	}
	n, _ := res.RowsAffected()
	logger.FromContext(ctx).Debug("transactions deleted", "backend", string(s.dialect), "rows", n)
	return nil
}

func (s *sqlStore) InsertMany(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to begin insert", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.dialect.rebind(
		`INSERT INTO transactions (`+selectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return errs.NewDatabaseError("create", "failed to prepare insert", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.Title, t.Description, t.Price, t.Category, t.Sold,
			t.DateOfSale.UTC().UnixMilli(), t.Image,
		); err != nil {
			return errs.NewDatabaseError("create", "failed to insert transaction", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errs.NewDatabaseError("create", "failed to commit insert", err)
	}
	return nil
}

func (s *sqlStore) Find(ctx context.Context, q dto.TransactionQuery) ([]models.Transaction, error) {
	where, args := s.where(q)
	query := `SELECT ` + selectColumns + ` FROM transactions` + where + ` ORDER BY date_of_sale, id`
	if q.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, q.Limit, q.Skip)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list transactions", err)
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		var (
			t      models.Transaction
			dateMs int64
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Price, &t.Category, &t.Sold, &dateMs, &t.Image); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse transaction row", err)
		}
		t.DateOfSale = time.UnixMilli(dateMs).UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list transactions", err)
	}

	// without a limit the skip is applied here
	if q.Limit <= 0 && q.Skip > 0 {
		out = page(out, q.Skip, 0)
	}
	return out, nil
}

func (s *sqlStore) Count(ctx context.Context, q dto.TransactionQuery) (int64, error) {
	where, args := s.where(q)
	var n int64
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT COUNT(*) FROM transactions`+where), args...).Scan(&n)
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to count transactions", err)
	}
	return n, nil
}

func (s *sqlStore) SumPrice(ctx context.Context, q dto.TransactionQuery) (float64, error) {
	where, args := s.where(q)
	var total float64
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT COALESCE(SUM(price), 0) FROM transactions`+where), args...).Scan(&total)
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to sum transaction prices", err)
	}
	return total, nil
}

func (s *sqlStore) CountByCategory(ctx context.Context, q dto.TransactionQuery) ([]dto.CategoryCount, error) {
	where, args := s.where(q)
	query := `SELECT category, COUNT(*) FROM transactions` + where + ` GROUP BY category ORDER BY category`

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to group transactions by category", err)
	}
	defer rows.Close()

	out := []dto.CategoryCount{}
	for rows.Next() {
		var c dto.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse category row", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to group transactions by category", err)
	}
	return out, nil
}

// where renders q as a WHERE clause with ? placeholders.
func (s *sqlStore) where(q dto.TransactionQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !q.From.IsZero() {
		conds = append(conds, `date_of_sale >= ?`)
		args = append(args, q.From.UTC().UnixMilli())
	}
	if !q.To.IsZero() {
		conds = append(conds, `date_of_sale < ?`)
		args = append(args, q.To.UTC().UnixMilli())
	}
	if hasSearch(q) {
		pattern := "%" + escapeLike(strings.ToLower(*q.Search)) + "%"
		conds = append(conds, `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR `+
			s.dialect.priceText()+` LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if q.Sold != nil {
		conds = append(conds, `sold = ?`)
		args = append(args, *q.Sold)
	}
	if q.MinPrice != nil {
		conds = append(conds, `price >= ?`)
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		conds = append(conds, `price < ?`)
		args = append(args, *q.MaxPrice)
	}
	if len(conds) == 0 {
		return "", args
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
