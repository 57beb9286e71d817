package compensation

import "errors"

var (
	ErrRateNotFound      = errors.New("compensation rate not found")
	ErrNoActiveRate      = errors.New("no active compensation rate for date")
	ErrNoOvertimeRule    = errors.New("no overtime rule for overtime category")
	ErrInvalidRateType   = errors.New("invalid rate type")
	ErrInvalidMultiplier = errors.New("overtime multiplier must be at least 1")
	ErrInvalidThreshold  = errors.New("threshold hours cannot be negative")
	ErrInvalidPercentage = errors.New("sick leave percentage must be between 0 and 100")
	ErrInvalidMaxDays    = errors.New("max days must be positive if specified")
)
