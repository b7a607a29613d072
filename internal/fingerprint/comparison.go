package fingerprint

import (
	"fmt"
	"strings"
)

// MismatchError reports a schema that no longer matches its recorded
// fingerprint.
type MismatchError struct {
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("schema fingerprint mismatch - expected: %s, actual: %s",
		preview(e.Expected), preview(e.Actual))
}

// Matches checks expected, a full hash or a prefix of at least eight hex
// digits, against actual.
func Matches(expected string, actual *SchemaFingerprint) error {
	expected = strings.ToLower(strings.TrimSpace(expected))
	if len(expected) >= 8 && strings.HasPrefix(actual.Hash, expected) {
		return nil
	}
	return &MismatchError{Expected: expected, Actual: actual.Hash}
}

func preview(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
