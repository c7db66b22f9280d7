// Package store persists the pending item batch and the source rotation
// cursor in a local sqlite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/trendpress/trendpress/internal/source"
)

const cursorKey = "last_polled_source"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store holds durable pipeline state. All mutating methods are serialized:
// the fast and slow cycles share one Store within the process.
type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	log *logrus.Logger
}

// itemExtra carries the optional source-specific fields of an Item inside
// one JSON column.
type itemExtra struct {
	Author   *source.Author  `json:"author,omitempty"`
	Metrics  *source.Metrics `json:"metrics,omitempty"`
	Media    []source.Media  `json:"media,omitempty"`
	Quoted   *source.Quoted  `json:"quoted_post,omitempty"`
	Language string          `json:"language,omitempty"`
}

// Open opens (creating if needed) the database at path. An unreadable or
// unmigratable database is moved aside and recreated empty: persisted state
// is a cache, losing it degrades gracefully while corruption must not wedge
// the scheduler.
func Open(path string, log *logrus.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}
	if log == nil {
		log = logrus.New()
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := open(path)
	if err != nil {
		log.WithFields(logrus.Fields{"path": path, "error": err.Error()}).
			Warn("store unreadable, recreating empty")

		corrupt := path + ".corrupt"
		_ = os.Remove(corrupt)
		if renameErr := os.Rename(path, corrupt); renameErr != nil {
			return nil, fmt.Errorf("move corrupt store aside: %w", renameErr)
		}

		db, err = open(path)
		if err != nil {
			return nil, err
		}
	}

	return &Store{db: db, log: log}, nil
}

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// AppendItems merges items into the pending batch, deduplicating by link.
// The last-appended item per link wins. The write is one transaction so a
// reader never observes a partially appended batch.
func (s *Store) AppendItems(ctx context.Context, items []source.Item) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if len(items) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}

	fetchedAt := time.Now().UTC().Format(time.RFC3339Nano)

	for _, item := range items {
		if strings.TrimSpace(item.Link) == "" {
			continue
		}

		var extraVal sql.NullString
		hasExtra := item.Author != nil || item.Metrics != nil || len(item.Media) > 0 ||
			item.Quoted != nil || item.Language != ""
		if hasExtra {
			extra := itemExtra{
				Author:   item.Author,
				Metrics:  item.Metrics,
				Media:    item.Media,
				Quoted:   item.Quoted,
				Language: item.Language,
			}
			raw, err := json.Marshal(extra)
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("encode item extra: %w", err)
			}
			extraVal = sql.NullString{String: string(raw), Valid: true}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO pending_items (link, headline, content, date_posted, extra, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(link) DO UPDATE SET
				headline = excluded.headline,
				content = excluded.content,
				date_posted = excluded.date_posted,
				extra = excluded.extra,
				fetched_at = excluded.fetched_at
		`,
			item.Link,
			item.Headline,
			item.Content,
			item.DatePosted,
			extraVal,
			fetchedAt,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("append item %s: %w", item.Link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}

	return nil
}

// DrainAll returns the full pending batch in link order and clears it,
// atomically. An empty store yields an empty slice, not an error.
func (s *Store) DrainAll(ctx context.Context) ([]source.Item, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin drain: %w", err)
	}

	items, err := selectItems(ctx, tx)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM pending_items"); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("clear pending items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit drain: %w", err)
	}

	return items, nil
}

// ListAll returns the pending batch in link order without clearing it.
func (s *Store) ListAll(ctx context.Context) ([]source.Item, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return selectItems(ctx, s.db)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func selectItems(ctx context.Context, q querier) ([]source.Item, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT link, headline, content, date_posted, extra
		FROM pending_items
		ORDER BY link
	`)
	if err != nil {
		return nil, fmt.Errorf("select pending items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []source.Item{}
	for rows.Next() {
		var (
			item     source.Item
			extraVal sql.NullString
		)
		if err := rows.Scan(&item.Link, &item.Headline, &item.Content, &item.DatePosted, &extraVal); err != nil {
			return nil, fmt.Errorf("scan pending item: %w", err)
		}

		if extraVal.Valid && extraVal.String != "" {
			var extra itemExtra
			if err := json.Unmarshal([]byte(extraVal.String), &extra); err != nil {
				return nil, fmt.Errorf("decode item extra: %w", err)
			}
			item.Author = extra.Author
			item.Metrics = extra.Metrics
			item.Media = extra.Media
			item.Quoted = extra.Quoted
			item.Language = extra.Language
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending items: %w", err)
	}

	return items, nil
}

// NextSource picks the source after the last-polled one, wrapping around.
// The new cursor value is persisted before the selection is returned, so a
// crash between selection and use still advances on the next call. A
// persisted source that is no longer in the list degrades to index 0.
// Returns ("", false, nil) when sources is empty.
func (s *Store) NextSource(ctx context.Context, sources []string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, errors.New("store is not initialized")
	}
	if len(sources) == 0 {
		return "", false, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("begin cursor advance: %w", err)
	}

	var last string
	err = tx.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", cursorKey).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return "", false, fmt.Errorf("read cursor: %w", err)
	}

	lastIndex := -1
	for i, src := range sources {
		if src == last {
			lastIndex = i
			break
		}
	}

	next := sources[(lastIndex+1)%len(sources)]

	_, err = tx.ExecContext(ctx, `
		INSERT INTO metadata(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, cursorKey, next)
	if err != nil {
		_ = tx.Rollback()
		return "", false, fmt.Errorf("persist cursor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("commit cursor advance: %w", err)
	}

	return next, true, nil
}
