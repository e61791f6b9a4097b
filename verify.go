package seek

import (
	"fmt"
	"strings"
)

// Verification selects how internal-consistency faults are handled.
type Verification int

const (
	// VerifyLenient logs the fault and skips the offending item.
	VerifyLenient Verification = iota

	// VerifyStrict panics with a *ConsistencyError. The panic poisons the
	// engine lock.
	VerifyStrict
)

func (v Verification) String() string {
	if v == VerifyStrict {
		return "strict"
	}
	return "lenient"
}

// ParseVerification parses "strict" or "lenient".
func ParseVerification(name string) (Verification, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict":
		return VerifyStrict, nil
	case "lenient":
		return VerifyLenient, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVerification, name)
}

// DefaultVerification is the mode executors use unless configured otherwise.
// Builds tagged seek_strict default to VerifyStrict.
func DefaultVerification() Verification {
	return defaultVerification
}
