package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/wadjakorntonsri/selectify-server/pkg/core/domain"
	"github.com/wadjakorntonsri/selectify-server/pkg/observability"
	"github.com/wadjakorntonsri/selectify-server/pkg/ports"
)

const (
	queriesTable         = "queries"
	recommendationsTable = "recommendations"
)

// SQLiteRepository stores both collections in SQLite or libSQL. Query
// documents map to columns; recommendations are kept as JSON text.
type SQLiteRepository struct {
	db *sql.DB
}

// IsSQLiteURL reports whether dbURL addresses a SQLite or libSQL database.
func IsSQLiteURL(dbURL string) bool {
	return strings.HasPrefix(dbURL, "file:") ||
		strings.HasPrefix(dbURL, ":memory:") ||
		isLibSQLURL(dbURL)
}

func isLibSQLURL(dbURL string) bool {
	return strings.Contains(dbURL, "libsql://") ||
		strings.Contains(dbURL, "wss://") ||
		strings.Contains(dbURL, ".turso.io")
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if isLibSQLURL(dbURL) {
		driverName = "libsql"
	}

	dsn := dbURL
	if driverName == "sqlite" {
		dsn = localDSN(dbURL)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	// One writer at a time in this process; busy_timeout covers other processes
	// sharing the file. A private in-memory database also needs the single
	// connection, since each new one would see an empty schema.
	if driverName == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func isMemoryURL(dbURL string) bool {
	return strings.Contains(dbURL, "mode=memory") || strings.HasPrefix(dbURL, ":memory:")
}

// localDSN adds the pragmas a file database needs under concurrent writes.
// Transactions start IMMEDIATE so a read-then-write never has to upgrade its lock.
func localDSN(dbURL string) string {
	if isMemoryURL(dbURL) {
		return dbURL
	}

	sep := "?"
	if strings.Contains(dbURL, "?") {
		sep = "&"
	}
	return dbURL + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS queries (
		id TEXT PRIMARY KEY,
		product_name TEXT NOT NULL DEFAULT '',
		product_brand TEXT NOT NULL DEFAULT '',
		product_image_url TEXT NOT NULL DEFAULT '',
		query_title TEXT NOT NULL DEFAULT '',
		boycott_reason TEXT NOT NULL DEFAULT '',
		user_email TEXT NOT NULL DEFAULT '',
		user_name TEXT NOT NULL DEFAULT '',
		user_image TEXT NOT NULL DEFAULT '',
		timestamp INTEGER NOT NULL,
		recommendation_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_queries_user_email ON queries(user_email, timestamp);

	CREATE TABLE IF NOT EXISTS recommendations (
		id TEXT PRIMARY KEY,
		doc JSON NOT NULL
	);
	`
	_, err := db.Exec(query)
	return err
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateQuery(ctx context.Context, q *domain.Query) error {
	query := `INSERT INTO queries (id, product_name, product_brand, product_image_url, query_title,
			  boycott_reason, user_email, user_name, user_image, timestamp, recommendation_count)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id := domain.NewID()
	_, err := r.db.ExecContext(ctx, query, id, q.ProductName, q.ProductBrand, q.ProductImageURL, q.QueryTitle,
		q.BoycottReason, q.UserEmail, q.UserName, q.UserImage, q.Timestamp.UnixMilli(), q.RecommendationCount)
	if err := observability.ObserveStoreOp(queriesTable, "insert", err); err != nil {
		return err
	}

	q.ID = id
	return nil
}

const selectQueryColumns = `SELECT id, product_name, product_brand, product_image_url, query_title,
		  boycott_reason, user_email, user_name, user_image, timestamp, recommendation_count FROM queries`

type scanner interface {
	Scan(dest ...any) error
}

func scanQuery(row scanner) (*domain.Query, error) {
	var q domain.Query
	var millis int64
	if err := row.Scan(&q.ID, &q.ProductName, &q.ProductBrand, &q.ProductImageURL, &q.QueryTitle,
		&q.BoycottReason, &q.UserEmail, &q.UserName, &q.UserImage, &millis, &q.RecommendationCount); err != nil {
		return nil, err
	}
	q.Timestamp = time.UnixMilli(millis).UTC()
	return &q, nil
}

func (r *SQLiteRepository) GetQuery(ctx context.Context, id string) (*domain.Query, error) {
	q, err := scanQuery(r.db.QueryRowContext(ctx, selectQueryColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		_ = observability.ObserveStoreOp(queriesTable, "find_one", nil)
		return nil, nil
	}
	if err := observability.ObserveStoreOp(queriesTable, "find_one", err); err != nil {
		return nil, err
	}
	return q, nil
}

func (r *SQLiteRepository) ListQueries(ctx context.Context) ([]domain.Query, error) {
	queries, err := r.listQueries(ctx, selectQueryColumns+` ORDER BY rowid`)
	return queries, observability.ObserveStoreOp(queriesTable, "find", err)
}

func (r *SQLiteRepository) ListQueriesByOwner(ctx context.Context, email string) ([]domain.Query, error) {
	queries, err := r.listQueries(ctx, selectQueryColumns+` WHERE user_email = ? ORDER BY timestamp DESC, rowid DESC`, email)
	return queries, observability.ObserveStoreOp(queriesTable, "find", err)
}

func (r *SQLiteRepository) listQueries(ctx context.Context, query string, args ...any) ([]domain.Query, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	queries := []domain.Query{}
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		queries = append(queries, *q)
	}
	return queries, rows.Err()
}

// UpdateQuery reports MatchedCount for an existing row and ModifiedCount only
// when at least one value actually changed.
func (r *SQLiteRepository) UpdateQuery(ctx context.Context, id string, f domain.QueryFields) (*domain.UpdateResult, error) {
	res, err := r.updateQuery(ctx, id, f)
	if err := observability.ObserveStoreOp(queriesTable, "update", err); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *SQLiteRepository) updateQuery(ctx context.Context, id string, f domain.QueryFields) (*domain.UpdateResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var matched int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM queries WHERE id = ?`, id).Scan(&matched); err != nil {
		return nil, err
	}

	query := `UPDATE queries SET product_name = ?, product_brand = ?, product_image_url = ?, query_title = ?, boycott_reason = ?
			  WHERE id = ? AND (product_name IS NOT ? OR product_brand IS NOT ? OR product_image_url IS NOT ?
			  OR query_title IS NOT ? OR boycott_reason IS NOT ?)`
	result, err := tx.ExecContext(ctx, query,
		f.ProductName, f.ProductBrand, f.ProductImageURL, f.QueryTitle, f.BoycottReason,
		id,
		f.ProductName, f.ProductBrand, f.ProductImageURL, f.QueryTitle, f.BoycottReason,
	)
	if err != nil {
		return nil, err
	}
	modified, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &domain.UpdateResult{Acknowledged: true, MatchedCount: matched, ModifiedCount: modified}, nil
}

func (r *SQLiteRepository) DeleteQuery(ctx context.Context, id string) (*domain.DeleteResult, error) {
	return r.deleteByID(ctx, queriesTable, id)
}

// AddRecommendationCount is a single UPDATE statement, so concurrent calls
// never lose an increment.
func (r *SQLiteRepository) AddRecommendationCount(ctx context.Context, id string, delta int64) (*domain.UpdateResult, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE queries SET recommendation_count = recommendation_count + ? WHERE id = ?`, delta, id)
	if err := observability.ObserveStoreOp(queriesTable, "increment", err); err != nil {
		return nil, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	return &domain.UpdateResult{Acknowledged: true, MatchedCount: n, ModifiedCount: n}, nil
}

func (r *SQLiteRepository) CreateRecommendation(ctx context.Context, rec domain.Recommendation) (string, error) {
	docJSON, err := json.Marshal(rec.WithoutID())
	if err != nil {
		return "", err
	}

	id := domain.NewID()
	_, err = r.db.ExecContext(ctx, `INSERT INTO recommendations (id, doc) VALUES (?, ?)`, id, string(docJSON))
	if err := observability.ObserveStoreOp(recommendationsTable, "insert", err); err != nil {
		return "", err
	}
	return id, nil
}

func (r *SQLiteRepository) ListRecommendations(ctx context.Context, field, value string) ([]domain.Recommendation, error) {
	recs, err := r.listRecommendations(ctx, field, value)
	return recs, observability.ObserveStoreOp(recommendationsTable, "find", err)
}

func (r *SQLiteRepository) listRecommendations(ctx context.Context, field, value string) ([]domain.Recommendation, error) {
	path := `$."` + field + `"`
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, doc FROM recommendations WHERE json_type(doc, ?) = 'text' AND json_extract(doc, ?) = ? ORDER BY rowid`,
		path, path, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []domain.Recommendation{}
	for rows.Next() {
		var id, docJSON string
		if err := rows.Scan(&id, &docJSON); err != nil {
			return nil, err
		}
		rec := domain.Recommendation{}
		if err := json.Unmarshal([]byte(docJSON), &rec); err != nil {
			return nil, err
		}
		rec[domain.FieldID] = id
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *SQLiteRepository) DeleteRecommendation(ctx context.Context, id string) (*domain.DeleteResult, error) {
	return r.deleteByID(ctx, recommendationsTable, id)
}

func (r *SQLiteRepository) deleteByID(ctx context.Context, table, id string) (*domain.DeleteResult, error) {
	// table is one of the two package constants
	result, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err := observability.ObserveStoreOp(table, "delete", err); err != nil {
		return nil, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	return &domain.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}

// Ensure interface compliance
var _ ports.Store = (*SQLiteRepository)(nil)
