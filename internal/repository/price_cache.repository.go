package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"dipbacktest/internal/domain"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// priceCacheRepositoryHandler is a write-through SQLite cache in front
// of another PriceRepository. The first request for a ticker pulls its
// full history from the inner provider and persists it; later requests
// are served locally.
type priceCacheRepositoryHandler struct {
	db    *sql.DB
	inner PriceRepository
	mu    sync.Mutex
}

// NewPriceCacheRepository opens (or creates) the SQLite database at
// dbPath and runs migrations.
func NewPriceCacheRepository(dbPath string, inner PriceRepository) (PriceRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	h := &priceCacheRepositoryHandler{db: db, inner: inner}
	if err := h.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return h, nil
}

func (h *priceCacheRepositoryHandler) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_bars (
			ticker     TEXT NOT NULL,
			date       TEXT NOT NULL,
			open       REAL NOT NULL,
			close      REAL NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (ticker, date)
		)`,
		`CREATE TABLE IF NOT EXISTS tickers (
			symbol     TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := h.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// TODO - refresh a ticker's tail when its newest cached bar falls behind
// the current trading day instead of serving the cached copy forever
func (h *priceCacheRepositoryHandler) GetDailyBars(ctx context.Context, ticker string, start, end time.Time) (domain.PriceSeries, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	series, err := h.listBars(ticker, start, end)
	if err != nil {
		return nil, err
	}
	if len(series) > 0 {
		return series, nil
	}

	fetched, err := h.inner.GetDailyBars(ctx, ticker, start, end)
	if err != nil {
		return nil, err
	}
	if err := h.storeBars(ticker, fetched); err != nil {
		return nil, err
	}
	return fetched, nil
}

func (h *priceCacheRepositoryHandler) GetName(ctx context.Context, ticker string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var name string
	err := h.db.QueryRow(`SELECT name FROM tickers WHERE symbol = ?`, ticker).Scan(&name)
	if err == nil {
		return name, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("query ticker name for %s: %w", ticker, err)
	}

	name, err = h.inner.GetName(ctx, ticker)
	if err != nil {
		return "", err
	}
	_, err = h.db.Exec(
		`INSERT OR REPLACE INTO tickers (symbol, name, created_at) VALUES (?, ?, ?)`,
		ticker, name, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("store ticker name for %s: %w", ticker, err)
	}
	return name, nil
}

func (h *priceCacheRepositoryHandler) listBars(ticker string, start, end time.Time) (domain.PriceSeries, error) {
	rows, err := h.db.Query(
		`SELECT date, open, close FROM price_bars
		 WHERE ticker = ? AND date >= ? AND date <= ?
		 ORDER BY date`,
		ticker, start.Format("2006-01-02"), end.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("query bars for %s: %w", ticker, err)
	}
	defer rows.Close()

	series := domain.PriceSeries{}
	for rows.Next() {
		var (
			dateStr     string
			open, close float64
		)
		if err := rows.Scan(&dateStr, &open, &close); err != nil {
			return nil, fmt.Errorf("scan bar for %s: %w", ticker, err)
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse cached date %q for %s: %w", dateStr, ticker, err)
		}
		series = append(series, domain.PriceBar{
			Date:  date,
			Open:  decimal.NewFromFloat(open),
			Close: decimal.NewFromFloat(close),
		})
	}
	return series, rows.Err()
}

func (h *priceCacheRepositoryHandler) storeBars(ticker string, series domain.PriceSeries) error {
	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf("begin bar insert for %s: %w", ticker, err)
	}
	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO price_bars (ticker, date, open, close, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare bar insert for %s: %w", ticker, err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, bar := range series {
		_, err := stmt.Exec(
			ticker,
			bar.Date.Format("2006-01-02"),
			bar.Open.InexactFloat64(),
			bar.Close.InexactFloat64(),
			now,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert bar for %s: %w", ticker, err)
		}
	}
	return tx.Commit()
}
