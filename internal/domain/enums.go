package domain

// GrammaticalClass represents the part-of-speech class of a lexical entry.
// The set mirrors the abbreviation scheme used in entry keys, so every class
// maps to a stable three-letter code.
type GrammaticalClass string

const (
	ClassAdjective    GrammaticalClass = "ADJECTIVE"
	ClassAdposition   GrammaticalClass = "ADPOSITION"
	ClassAdverb       GrammaticalClass = "ADVERB"
	ClassAffix        GrammaticalClass = "AFFIX"
	ClassArticle      GrammaticalClass = "ARTICLE"
	ClassConjunction  GrammaticalClass = "CONJUNCTION"
	ClassInterjection GrammaticalClass = "INTERJECTION"
	ClassLetter       GrammaticalClass = "LETTER"
	ClassNoun         GrammaticalClass = "NOUN"
	ClassParticle     GrammaticalClass = "PARTICLE"
	ClassPronoun      GrammaticalClass = "PRONOUN"
	ClassSentence     GrammaticalClass = "SENTENCE"
	ClassSymbol       GrammaticalClass = "SYMBOL"
	ClassVerb         GrammaticalClass = "VERB"
)

func (c GrammaticalClass) String() string { return string(c) }

func (c GrammaticalClass) IsValid() bool {
	switch c {
	case ClassAdjective, ClassAdposition, ClassAdverb, ClassAffix, ClassArticle,
		ClassConjunction, ClassInterjection, ClassLetter, ClassNoun, ClassParticle,
		ClassPronoun, ClassSentence, ClassSymbol, ClassVerb:
		return true
	}
	return false
}

// Abbrev returns the short code used in entry keys (e.g. "nou" for nouns).
func (c GrammaticalClass) Abbrev() string {
	switch c {
	case ClassAdjective:
		return "adj"
	case ClassAdposition:
		return "adp"
	case ClassAdverb:
		return "adv"
	case ClassAffix:
		return "aff"
	case ClassArticle:
		return "art"
	case ClassConjunction:
		return "con"
	case ClassInterjection:
		return "int"
	case ClassLetter:
		return "let"
	case ClassNoun:
		return "nou"
	case ClassParticle:
		return "par"
	case ClassPronoun:
		return "pro"
	case ClassSentence:
		return "sen"
	case ClassSymbol:
		return "sym"
	case ClassVerb:
		return "ver"
	}
	return "unk"
}

// RelationKind is the closed set of typed edges between a lexical entry and
// a target literal. Anagram edges originate from a literal instead.
type RelationKind string

const (
	RelationSynonym      RelationKind = "SYNONYM"
	RelationQuasiSynonym RelationKind = "QUASI_SYNONYM"
	RelationAntonym      RelationKind = "ANTONYM"
	RelationHypernym     RelationKind = "HYPERNYM"
	RelationHyponym      RelationKind = "HYPONYM"
	RelationMeronym      RelationKind = "MERONYM"
	RelationHolonym      RelationKind = "HOLONYM"
	RelationTroponym     RelationKind = "TROPONYM"
	RelationDerived      RelationKind = "DERIVED"
	RelationRelated      RelationKind = "RELATED"
	RelationVocabulary   RelationKind = "VOCABULARY"
	RelationVariant      RelationKind = "VARIANT"
	RelationAbbreviation RelationKind = "ABBREVIATION"
	RelationDiminutive   RelationKind = "DIMINUTIVE"
	RelationAnagram      RelationKind = "ANAGRAM"
)

func (k RelationKind) String() string { return string(k) }

func (k RelationKind) IsValid() bool {
	switch k {
	case RelationSynonym, RelationQuasiSynonym, RelationAntonym, RelationHypernym,
		RelationHyponym, RelationMeronym, RelationHolonym, RelationTroponym,
		RelationDerived, RelationRelated, RelationVocabulary, RelationVariant,
		RelationAbbreviation, RelationDiminutive, RelationAnagram:
		return true
	}
	return false
}

// Gender is a grammatical gender trait on an entry.
type Gender string

const (
	GenderMasculine Gender = "MASCULINE"
	GenderFeminine  Gender = "FEMININE"
)

func (g Gender) String() string { return string(g) }

// GrammaticalNumber is a grammatical number trait on an entry.
type GrammaticalNumber string

const (
	NumberSingular GrammaticalNumber = "SINGULAR"
	NumberPlural   GrammaticalNumber = "PLURAL"
)

func (n GrammaticalNumber) String() string { return string(n) }

// InflectionFeature identifies which derived form an inflected entry is.
// Agreement features are fixed; conjugation features come from the taxonomy
// conjugation table (e.g. "indicative_present_1s") and are validated there.
type InflectionFeature string

const (
	FeatureFeminine        InflectionFeature = "feminine"
	FeatureFemininePlural  InflectionFeature = "feminine_plural"
	FeatureMasculinePlural InflectionFeature = "masculine_plural"
	FeaturePlural          InflectionFeature = "plural"
)

func (f InflectionFeature) String() string { return string(f) }
