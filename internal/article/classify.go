package article

import (
	"strings"

	"github.com/flontology/flont/internal/domain"
	"github.com/flontology/flont/internal/taxonomy"
	"github.com/flontology/flont/internal/wikitext"
)

// Role is the semantic role assigned to a section by the classifier.
type Role int

const (
	RoleOther Role = iota
	RoleLanguage
	RolePartOfSpeech
	RoleEtymology
	RolePronunciation
	RoleAnagrams
	RoleRelationGroup
	RoleIgnored
)

func (r Role) String() string {
	switch r {
	case RoleLanguage:
		return "language"
	case RolePartOfSpeech:
		return "part_of_speech"
	case RoleEtymology:
		return "etymology"
	case RolePronunciation:
		return "pronunciation"
	case RoleAnagrams:
		return "anagrams"
	case RoleRelationGroup:
		return "relation_group"
	case RoleIgnored:
		return "ignored"
	}
	return "other"
}

// Classification is the outcome of classifying one section title.
type Classification struct {
	Role Role

	// Model is the lemmatized section model name ("nom", "synonymes", ...).
	Model string

	// LangCode is set for language sections ("fr", "en", ...).
	LangCode string

	// Class is set for part-of-speech sections.
	Class domain.GrammaticalClass

	// Kind is set for relation-group sections.
	Kind domain.RelationKind
}

// sectionModel lemmatizes a section title: "S|nom|fr" yields "nom",
// "langue|fr" yields "langue", plain titles pass through.
func sectionModel(title string) (model, second string) {
	parts := strings.Split(title, "|")
	first := strings.TrimSpace(parts[0])
	if len(parts) == 1 {
		return first, ""
	}
	if domain.NormalizeTitle(first) == "s" {
		model = strings.TrimSpace(parts[1])
		if len(parts) > 2 {
			second = strings.TrimSpace(parts[2])
		}
		return model, second
	}
	return first, strings.TrimSpace(parts[1])
}

// Classify assigns a role to a section title. entryLevel selects which
// ignore list applies: relation groups and pronunciation belong under a
// part-of-speech section, language and etymology above it.
func (p *Parser) Classify(section *wikitext.Section, entryLevel bool) Classification {
	model, second := sectionModel(section.Title)
	normalized := domain.NormalizeTitle(model)

	switch normalized {
	case "langue":
		return Classification{Role: RoleLanguage, Model: model, LangCode: second}
	case "etymologie":
		return Classification{Role: RoleEtymology, Model: model}
	case "prononciation":
		return Classification{Role: RolePronunciation, Model: model}
	case "anagrammes":
		return Classification{Role: RoleAnagrams, Model: model}
	}

	if class, ok := p.tax.ClassFor(model); ok {
		return Classification{Role: RolePartOfSpeech, Model: model, Class: class}
	}
	if kind, ok := p.tax.RelationFor(model); ok {
		return Classification{Role: RoleRelationGroup, Model: model, Kind: kind}
	}
	if taxonomy.IsIgnored(model, entryLevel) {
		return Classification{Role: RoleIgnored, Model: model}
	}
	return Classification{Role: RoleOther, Model: model}
}
