package usecase

import (
	"errors"

	"github.com/riskibarqy/nwsl-stats/internal/identity"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	ErrFetch               = errors.New("document fetch failed")
	ErrResolutionAmbiguous = identity.ErrAmbiguous
	ErrWriteConflict       = errors.New("write conflict")
	// ErrStoreUnavailable is the only failure that stops a season run.
	ErrStoreUnavailable = errors.New("store unavailable")
)
