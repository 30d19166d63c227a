package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/contre95/songbook/src/features/config"
	"github.com/contre95/songbook/src/songbook"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Observer receives the duration and result of every storage operation.
type Observer interface {
	ObserveQuery(op string, d time.Duration, err error)
}

// Storage is the read-only accessor for the songs table. Every operation
// acquires its own connection and releases it before returning.
type Storage struct {
	db       *sql.DB
	dialect  Dialect
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker[any]
	observer Observer
}

var _ songbook.Catalog = (*Storage)(nil)

// Option configures a Storage.
type Option func(*Storage)

// WithQueryTimeout bounds each operation, connection acquisition included.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Storage) {
		s.timeout = d
	}
}

// WithBreaker routes every operation through cb.
func WithBreaker(cb *gobreaker.CircuitBreaker[any]) Option {
	return func(s *Storage) {
		s.breaker = cb
	}
}

// WithObserver reports every operation to o.
func WithObserver(o Observer) Option {
	return func(s *Storage) {
		s.observer = o
	}
}

// Open prepares a Storage for the configured driver. No connection is made
// until the first operation.
func Open(cfg config.Database, opts ...Option) (*Storage, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	opts = append([]Option{WithQueryTimeout(cfg.QueryTimeout)}, opts...)
	return New(db, dialect, opts...), nil
}

// New wraps an existing handle.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Storage {
	s := &Storage{db: db, dialect: dialect}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the underlying handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

// withConn acquires a dedicated connection, runs fn with it and releases it on
// every path. Any failure comes back wrapping songbook.ErrStorageUnavailable.
func (s *Storage) withConn(ctx context.Context, op string, fn func(ctx context.Context, conn *sql.Conn) error) (err error) {
	start := time.Now()
	defer func() {
		if s.observer != nil {
			s.observer.ObserveQuery(op, time.Since(start), err)
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	run := func() error {
		conn, err := s.db.Conn(ctx)
		if err != nil {
			return fmt.Errorf("acquire connection: %w", err)
		}
		defer conn.Close()
		return fn(ctx, conn)
	}

	if s.breaker != nil {
		_, err = s.breaker.Execute(func() (any, error) {
			return nil, run()
		})
	} else {
		err = run()
	}
	if err != nil {
		slog.Debug("Storage operation failed", "op", op, "error", err)
		return fmt.Errorf("%w: %s: %w", songbook.ErrStorageUnavailable, op, err)
	}
	return nil
}

// Select runs the projection query and returns one value slice per row, in
// projection order.
func (s *Storage) Select(ctx context.Context, q songbook.Query) ([][]any, error) {
	built, err := selectSongs(q)
	if err != nil {
		return nil, err
	}
	query, args, err := s.dialect.render(built)
	if err != nil {
		return nil, fmt.Errorf("render select: %w", err)
	}
	slog.Debug("Select songs", "query", query, "params", len(args))

	rows := [][]any{}
	err = s.withConn(ctx, "select", func(ctx context.Context, conn *sql.Conn) error {
		r, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer r.Close()

		width := len(q.Projection)
		for r.Next() {
			values := make([]any, width)
			dest := make([]any, width)
			for i := range values {
				dest[i] = &values[i]
			}
			if err := r.Scan(dest...); err != nil {
				return fmt.Errorf("scan song: %w", err)
			}
			rows = append(rows, values)
		}
		return r.Err()
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByArtist returns song counts grouped by artist, restricted to the
// given lowercased names when any are passed.
func (s *Storage) CountByArtist(ctx context.Context, artists []string) ([]songbook.ArtistCount, error) {
	query, args, err := s.dialect.render(countByArtist(artists))
	if err != nil {
		return nil, fmt.Errorf("render artist counts: %w", err)
	}

	counts := []songbook.ArtistCount{}
	err = s.withConn(ctx, "count_by_artist", func(ctx context.Context, conn *sql.Conn) error {
		r, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer r.Close()

		for r.Next() {
			var artist sql.NullString
			var count int64
			if err := r.Scan(&artist, &count); err != nil {
				return fmt.Errorf("scan artist count: %w", err)
			}
			counts = append(counts, songbook.ArtistCount{Artist: artist.String, SongCount: count})
		}
		return r.Err()
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountArtists returns the number of distinct artist values.
func (s *Storage) CountArtists(ctx context.Context) (int64, error) {
	query, args, err := s.dialect.render(countDistinctArtists())
	if err != nil {
		return 0, fmt.Errorf("render artist total: %w", err)
	}

	var total int64
	err = s.withConn(ctx, "count_artists", func(ctx context.Context, conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, query, args...).Scan(&total)
	})
	return total, err
}

// Ping checks that a connection can be acquired and answers.
func (s *Storage) Ping(ctx context.Context) error {
	return s.withConn(ctx, "ping", func(ctx context.Context, conn *sql.Conn) error {
		return conn.PingContext(ctx)
	})
}
