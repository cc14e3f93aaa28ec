package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"log/slog"

	"github.com/finquest/finquest/database/models"
	"github.com/uptrace/bun"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	PoolSize int
}

type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Retry the initial ping so a restarting database does not kill startup.
	for i := 0; ; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
		err = pool.Ping(pingCtx)
		cancel()
		if err == nil {
			break
		}
		if i+1 >= defaultMaxRetries {
			pool.Close()
			return nil, fmt.Errorf("database unreachable after %d attempts: %w", defaultMaxRetries, err)
		}
		time.Sleep(defaultRetryInterval)
	}

	return &DB{pool: pool, bunDB: newBunDB(cfg)}, nil
}

func buildConnString(cfg DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)
}

func newBunDB(cfg DBConfig) *bun.DB {
	sslMode := os.Getenv("PG_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, sslMode)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	bunDB.AddQueryHook(queryHook{})
	return bunDB
}

func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

// Ping checks database reachability with a bounded timeout.
func (db *DB) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return db.pool.Ping(pingCtx)
}

func (db *DB) Close() {
	if db.bunDB != nil {
		_ = db.bunDB.Close()
	}
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateSchema creates all application tables if they do not exist yet.
func (db *DB) CreateSchema(ctx context.Context) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Quest)(nil),
		(*models.UserQuest)(nil),
		(*models.Achievement)(nil),
		(*models.UserAchievement)(nil),
		(*models.Game)(nil),
		(*models.UserGame)(nil),
		(*models.Video)(nil),
		(*models.UserSavedVideo)(nil),
	}

	for _, table := range tables {
		start := time.Now()
		_, err := db.bunDB.NewCreateTable().
			Model(table).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			slog.Error("Failed to create table",
				slog.String("type", "db"),
				slog.Any("model", fmt.Sprintf("%T", table)),
				slog.Any("error", err))
			return fmt.Errorf("failed to create table for %T: %w", table, err)
		}
		slog.Debug("Ensured table",
			slog.String("type", "db"),
			slog.String("model", fmt.Sprintf("%T", table)),
			slog.Duration("took", time.Since(start)))
	}

	return nil
}
