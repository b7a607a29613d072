// Package fingerprint hashes a resolved schema so that drift between two
// introspections can be detected.
package fingerprint

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/pgschema/pgintrospect/internal/interchange"
	"github.com/pgschema/pgintrospect/internal/ir"
)

// SchemaFingerprint represents a fingerprint of a resolved schema
type SchemaFingerprint struct {
	Hash string `json:"hash"` // SHA256 of the interchange document
}

// Compute hashes the JSON interchange document of s. Documents list every
// collection in name order, so equal schemas hash equally.
func Compute(s *ir.Schema) (*SchemaFingerprint, error) {
	data, err := json.Marshal(interchange.FromSchema(s))
	if err != nil {
		return nil, fmt.Errorf("failed to compute schema hash: %w", err)
	}
	return &SchemaFingerprint{Hash: fmt.Sprintf("%x", sha256.Sum256(data))}, nil
}

// Short is the first eight hex digits.
func (f *SchemaFingerprint) Short() string {
	if len(f.Hash) >= 8 {
		return f.Hash[:8]
	}
	return f.Hash
}

// String returns a human-readable representation of the fingerprint
func (f *SchemaFingerprint) String() string {
	return "Schema fingerprint: " + f.Short()
}
