package domain

import "testing"

func TestGrammaticalClassAbbrev(t *testing.T) {
	classes := []GrammaticalClass{
		ClassAdjective, ClassAdposition, ClassAdverb, ClassAffix, ClassArticle,
		ClassConjunction, ClassInterjection, ClassLetter, ClassNoun,
		ClassParticle, ClassPronoun, ClassSentence, ClassSymbol, ClassVerb,
	}
	seen := make(map[string]GrammaticalClass, len(classes))
	for _, c := range classes {
		if !c.IsValid() {
			t.Errorf("%s: IsValid() = false", c)
		}
		ab := c.Abbrev()
		if len(ab) != 3 {
			t.Errorf("%s: abbrev %q is not three letters", c, ab)
		}
		if prev, dup := seen[ab]; dup {
			t.Errorf("abbrev %q shared by %s and %s", ab, prev, c)
		}
		seen[ab] = c
	}

	if GrammaticalClass("BOGUS").IsValid() {
		t.Error("bogus class reported valid")
	}
	if GrammaticalClass("BOGUS").Abbrev() != "unk" {
		t.Error("bogus class abbrev should be unk")
	}
}

func TestRelationKindIsValid(t *testing.T) {
	for _, k := range []RelationKind{
		RelationSynonym, RelationAntonym, RelationHypernym, RelationHyponym,
		RelationMeronym, RelationHolonym, RelationAnagram,
	} {
		if !k.IsValid() {
			t.Errorf("%s: IsValid() = false", k)
		}
	}
	if RelationKind("friendship").IsValid() {
		t.Error("unknown kind reported valid")
	}
}
