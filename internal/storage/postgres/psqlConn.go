package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/Fuonder/bmadsoffice/internal/logger"
)

var timeouts = []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

func isConnectionError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.SQLState(), "08")
	}
	return false
}

type Connection struct {
	db    *sql.DB
	sleep func(time.Duration)
}

// NewConnection opens the pool, waits for the server and applies the schema.
func NewConnection(ctx context.Context, dsn string) (*Connection, error) {
	logger.Log.Info("Connecting to database")
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("can not connect with database: %w", err)
	}
	c := newConnection(db)
	if err = c.ConnectCtx(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("access to database: %w", err)
	}
	if err = c.MigrateCtx(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	logger.Log.Info("Migration successful")
	return c, nil
}

func newConnection(db *sql.DB) *Connection {
	return &Connection{db: db, sleep: time.Sleep}
}

func (c *Connection) ConnectCtx(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("no active connection with db")
	}
	var err error
	for i := 0; i <= len(timeouts); i++ {
		err = c.db.PingContext(ctx)
		if err == nil {
			logger.Log.Info("Database access - OK")
			return nil
		}
		if !isConnectionError(err) {
			return fmt.Errorf("can not access database: %w", err)
		}
		if i < len(timeouts) {
			logger.Log.Info("retrying after timeout",
				zap.Duration("timeout", timeouts[i]),
				zap.Int("retry-count", i+1),
				zap.Error(err))
			c.sleep(timeouts[i])
		}
	}
	return fmt.Errorf("can not access database: %w", err)
}

func (c *Connection) MigrateCtx(ctx context.Context) error {
	logger.Log.Info("Migrating database")
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, MigrationQuery); err != nil {
		return err
	}
	return tx.Commit()
}

func (c *Connection) Close() error {
	return c.db.Close()
}
