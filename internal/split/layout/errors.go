package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every ConfigError via errors.Is.
var ErrInvalidConfig = errors.New("invalid split config")

// ConfigError reports a malformed relative, position or size specification.
type ConfigError struct {
	Field  string // "relative", "position" or "size"
	Value  any    // offending value, if any
	Reason string
	Err    error // underlying parse error, if any
}

func configErrorf(field string, value any, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%v: %s", ErrInvalidConfig, e.Field)
	if e.Value != nil {
		msg = fmt.Sprintf("%s %v", msg, e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches ErrInvalidConfig and the wrapped error.
func (e *ConfigError) Is(target error) bool {
	if e == nil {
		return false
	}
	if target == ErrInvalidConfig {
		return true
	}
	return errors.Is(e.Err, target)
}
