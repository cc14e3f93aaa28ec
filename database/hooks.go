package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/finquest/finquest/logger"
)

// queryHook reports every bun query through the shared query logger.
type queryHook struct{}

var _ bun.QueryHook = (*queryHook)(nil)

func (queryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (queryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	err := event.Err
	// Row misses are an expected outcome, not a query failure.
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	logger.LogQuery(event.Operation(), time.Since(event.StartTime), err)
}
