package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/finquest/finquest/database/repositories"
)

// Error taxonomy for the whole service layer. Handlers map these onto HTTP
// statuses; anything not in the taxonomy is treated as unavailability.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrPrerequisiteNotMet = errors.New("prerequisite not met")
	ErrInvalidState       = errors.New("invalid state")
	ErrUnavailable        = errors.New("service unavailable")
)

// storeErr translates raw repository failures into the taxonomy. Row misses
// become notFound (the caller picks the public class); constraint conflicts
// become ErrConflict; timeouts and everything else surface as ErrUnavailable.
func storeErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	case repositories.IsUniqueViolation(err):
		return ErrConflict
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: store timeout: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
