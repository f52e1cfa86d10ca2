package quantbin

import (
	"errors"
	"fmt"

	"github.com/hupe1980/quantbin/internal/resource"
)

var (
	// ErrInvalidBin is the parent of every feature validation error.
	ErrInvalidBin = errors.New("invalid bin")

	// ErrNilOracle is returned when a query is issued without an Oracle.
	ErrNilOracle = errors.New("oracle must not be nil")

	// ErrAlreadyIndexed is returned when a Cluster that already lives in a
	// bucket is inserted or merged a second time.
	ErrAlreadyIndexed = errors.New("cluster is already indexed")

	// ErrCorruptIndex is returned by Validate when a structural invariant
	// does not hold.
	ErrCorruptIndex = errors.New("index invariant violated")

	// ErrMemoryLimitExceeded is returned when a new cluster would exceed the
	// configured memory budget.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

	// ErrUnknownLayout is returned by New for an unsupported Layout.
	ErrUnknownLayout = errors.New("unknown index layout")
)

// ErrInvalidFeature reports a non-finite or negative feature value.
//
// errors.Is(err, ErrInvalidBin) holds for every ErrInvalidFeature.
type ErrInvalidFeature struct {
	ID      uint32
	Feature string
	Value   float64
}

func (e *ErrInvalidFeature) Error() string {
	return fmt.Sprintf("invalid bin %d: %s = %v", e.ID, e.Feature, e.Value)
}

func (e *ErrInvalidFeature) Unwrap() error { return ErrInvalidBin }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, resource.ErrMemoryLimitExceeded) {
		return fmt.Errorf("%w: %w", ErrMemoryLimitExceeded, err)
	}

	return err
}
