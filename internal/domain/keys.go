package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// nsGraph is the UUIDv5 namespace for all graph individuals. Fixed so that
// re-runs over the same dump reproduce byte-identical identifiers.
var nsGraph = uuid.MustParse("8f8bfb2e-6c43-5a21-9f77-1d2b64c0a8e3")

// LiteralKey derives the stable key of a literal from its article title.
// Spaces become underscores; the leading underscore marks the literal root.
func LiteralKey(title string) string {
	return "_" + strings.ReplaceAll(title, " ", "_")
}

// EntryKey derives the stable key of a lexical entry from its literal key,
// class and 1-based ordinal among entries of the same class.
func EntryKey(literalKey string, class GrammaticalClass, ordinal int) string {
	return fmt.Sprintf("%s_%s%d", literalKey, class.Abbrev(), ordinal)
}

// SenseKey derives the stable key of a sense from its entry key and 1-based
// ordinal.
func SenseKey(entryKey string, ordinal int) string {
	return fmt.Sprintf("%s.%d", entryKey, ordinal)
}

// NewID returns the deterministic UUID for a node key.
func NewID(key string) uuid.UUID {
	return uuid.NewSHA1(nsGraph, []byte(key))
}
