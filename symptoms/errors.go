package symptoms

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks startup problems that must abort initialization:
	// missing files, malformed reference data, an unusable vocabulary.
	ErrConfiguration = errors.New("configuration error")
	// ErrIncompatibleModel is returned when no classifier matches the vocabulary.
	ErrIncompatibleModel = fmt.Errorf("%w: incompatible model", ErrConfiguration)
	// ErrOracle wraps any failure raised by the classifier during a prediction.
	ErrOracle = errors.New("classifier failure")
	// ErrEmptyDistribution is returned when the classifier yields no classes.
	ErrEmptyDistribution = errors.New("empty probability distribution")
	// ErrInputTooLarge is returned when input exceeds the configured limits.
	ErrInputTooLarge = errors.New("input exceeds limits")
)

// configErrorf prefixes ErrConfiguration; format may carry its own %w.
func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfiguration}, args...)...)
}
