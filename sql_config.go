package ginblog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// Rebind rewrites ? placeholders into the dialect's positional form.
func (d Dialect) Rebind(query string) string {
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

type SQLConfig struct {
	Driver          Dialect
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func NewSQLConfig() *SQLConfig {
	return &SQLConfig{
		Driver:          DialectSQLite,
		MaxOpenConns:    25,
		MaxIdleConns:    25,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

func (c *SQLConfig) WithDriver(driver Dialect) *SQLConfig {
	c.Driver = driver
	return c
}

func (c *SQLConfig) WithDSN(dsn string) *SQLConfig {
	c.DSN = dsn
	return c
}

func (c *SQLConfig) WithPool(maxOpen, maxIdle int, lifetime time.Duration) *SQLConfig {
	c.MaxOpenConns = maxOpen
	c.MaxIdleConns = maxIdle
	c.ConnMaxLifetime = lifetime
	return c
}

// ParseSQLConfig accepts sqlite:///relative.db, sqlite:////absolute.db,
// sqlite:// (in-memory) and postgres:// or postgresql:// URLs.
func ParseSQLConfig(uri string) (*SQLConfig, error) {
	switch {
	case strings.HasPrefix(uri, "sqlite://"):
		path := strings.TrimPrefix(uri, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			path = ":memory:"
		}
		return NewSQLConfig().WithDriver(DialectSQLite).WithDSN(path), nil
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return NewSQLConfig().WithDriver(DialectPostgres).WithDSN(uri), nil
	default:
		return nil, fmt.Errorf("unsupported database uri %q", uri)
	}
}

func (c *SQLConfig) BuildDSN() string {
	if c.Driver != DialectSQLite || c.DSN == ":memory:" {
		return c.DSN
	}
	sep := "?"
	if strings.Contains(c.DSN, "?") {
		sep = "&"
	}
	return c.DSN + sep + "_busy_timeout=5000"
}

// DB is a connection pool that knows which SQL dialect it speaks.
type DB struct {
	*sql.DB
	Dialect Dialect
}

func (c *SQLConfig) Connect(ctx context.Context) (*DB, error) {
	db, err := sql.Open(string(c.Driver), c.BuildDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxLifetime(c.ConnMaxLifetime)
	if c.DSN == ":memory:" {
		// every sqlite connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, Dialect: c.Driver}, nil
}

// WithTx runs fn inside a transaction. The transaction commits only when fn
// returns nil; errors and panics roll it back.
func (db *DB) WithTx(ctx context.Context, fn func(tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
