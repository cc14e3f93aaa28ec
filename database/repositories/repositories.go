// Package repositories provides data access over bun for all FinQuest
// entities. Methods that must run inside a caller-controlled transaction
// accept a bun.IDB so services can compose them with RunInTx.
package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun/driver/pgdriver"
)

// Every store operation runs under a bounded timeout; callers surface
// expiry as an unavailability error.
const queryTimeout = 5 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}
