// Package domain holds the graph entities populated from the dump, their
// closed enumerations and the deterministic key scheme. Entities are
// append-only: once committed to the store they are never rewritten.
package domain

import "github.com/google/uuid"

// Literal is the written form (article title) rooting all entries for it.
// One literal exists per distinct title.
type Literal struct {
	ID    uuid.UUID
	Key   string
	Title string

	// Etymology is the raw etymology section text, when present.
	Etymology string

	// Pronunciation is the article-level transcription. It is the fallback
	// for entries that do not carry their own.
	Pronunciation string

	Entries  []LexicalEntry
	Anagrams []Relation
}

// LexicalEntry is one part-of-speech-scoped entry of a literal, identified
// by (literal, class, ordinal).
type LexicalEntry struct {
	ID         uuid.UUID
	Key        string
	LiteralKey string
	Class      GrammaticalClass
	Ordinal    int

	// Pronunciation is the entry's own transcription; empty means it
	// inherited the literal's (or none exists).
	Pronunciation string

	Genders []Gender
	Numbers []GrammaticalNumber

	Senses      []LexicalSense
	Inflections []InflectionForm
	Relations   []Relation
}

// LexicalSense is one meaning within an entry, identified by
// (entry, ordinal). Definition lines recognized as inflection descriptions
// never become senses.
type LexicalSense struct {
	ID       uuid.UUID
	Key      string
	EntryKey string
	Ordinal  int

	Definition Definition
}

// Definition is the gloss attached to a sense.
type Definition struct {
	// Gloss is the definition text with markup stripped.
	Gloss string

	// Tags are qualifier labels (register, domain) resolved from the
	// taxonomy definitions table.
	Tags []string

	// Examples are usage sentences quoted under the definition line.
	Examples []string

	// DependsOnKey names the sense this definition refines, when the
	// source marks it as a relationship between definitions.
	DependsOnKey string
}

// InflectionForm records that an entry is a derived form of another
// literal: the entry carrying the form is the source, the base form is the
// target. Inflection forms never own senses.
type InflectionForm struct {
	EntryKey  string
	Feature   InflectionFeature
	TargetKey string
}

// Relation is a typed directed edge from an entry (or, for anagrams, a
// literal) to a target literal. The target is resolved by surface text
// only, so it may name a literal that never gets its own article.
type Relation struct {
	SourceKey   string
	Kind        RelationKind
	TargetKey   string
	TargetLabel string
}
