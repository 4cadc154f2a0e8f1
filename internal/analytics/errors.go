package analytics

import (
	"errors"
	"fmt"
)

// ErrDomain is wrapped by every error caused by parameters outside a formula's domain.
var ErrDomain = errors.New("invalid parameter")

var (
	ErrInvalidWindow          = fmt.Errorf("%w: window must be a positive integer", ErrDomain)
	ErrNonPositiveHoldingCost = fmt.Errorf("%w: holding cost must be > 0", ErrDomain)
	ErrNegativeInput          = fmt.Errorf("%w: demand and order cost must be >= 0", ErrDomain)
	ErrNegativeLeadTime       = fmt.Errorf("%w: lead time must be >= 0", ErrDomain)
	ErrNonPositiveCostSum     = fmt.Errorf("%w: understock + overstock cost must be > 0", ErrDomain)
	ErrNonPositiveSigma       = fmt.Errorf("%w: sigma must be > 0", ErrDomain)
	ErrCriticalRatioRange     = fmt.Errorf("%w: critical ratio must be within (0, 1)", ErrDomain)
	ErrNonFinite              = fmt.Errorf("%w: inputs must be finite numbers", ErrDomain)
)

var (
	// ErrInsufficientData means the filtered ledger is too sparse for the requested analysis.
	ErrInsufficientData = errors.New("insufficient data")
	ErrLengthMismatch   = errors.New("actual and forecast series have different lengths")
)
