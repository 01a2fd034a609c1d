package taxonomy

import (
	"testing"

	"github.com/flontology/flont/internal/domain"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	tax, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		title string
		want  domain.GrammaticalClass
	}{
		{"nom", domain.ClassNoun},
		{"Nom commun", domain.ClassNoun},
		{"verbe", domain.ClassVerb},
		{"adjectif démonstratif", domain.ClassAdjective},
		{"préposition", domain.ClassAdposition},
	}
	for _, tt := range tests {
		got, ok := tax.ClassFor(tt.title)
		if !ok || got != tt.want {
			t.Errorf("ClassFor(%q): got %v (%v), want %v", tt.title, got, ok, tt.want)
		}
	}

	if _, ok := tax.ClassFor("gribouillis"); ok {
		t.Error("ClassFor matched an unknown title")
	}
}

func TestRelationFor(t *testing.T) {
	tax, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		title string
		want  domain.RelationKind
	}{
		{"synonymes", domain.RelationSynonym},
		{"Hyperonymes", domain.RelationHypernym},
		{"méronymes", domain.RelationMeronym},
		{"dérivés", domain.RelationDerived},
		{"anagrammes", domain.RelationAnagram},
	}
	for _, tt := range tests {
		got, ok := tax.RelationFor(tt.title)
		if !ok || got != tt.want {
			t.Errorf("RelationFor(%q): got %v (%v), want %v", tt.title, got, ok, tt.want)
		}
	}
}

func TestQualifierFor(t *testing.T) {
	tax, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	q, ok := tax.QualifierFor("figuré")
	if !ok || q.Label != "figurative" || q.Dependency {
		t.Errorf("figuré: got %+v (%v)", q, ok)
	}

	q, ok = tax.QualifierFor("par extension")
	if !ok || !q.Dependency {
		t.Errorf("par extension should be a dependency qualifier, got %+v (%v)", q, ok)
	}

	if _, ok := tax.QualifierFor("pron"); ok {
		t.Error("pron should not resolve as a qualifier")
	}
}

func TestConjugationFeature(t *testing.T) {
	tax, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	f, ok := tax.ConjugationFeature("ind.p.3s")
	if !ok || f != domain.InflectionFeature("indicative_present_3s") {
		t.Errorf("ind.p.3s: got %v (%v)", f, ok)
	}
	if _, ok := tax.ConjugationFeature("'"); ok {
		t.Error("apostrophe argument should not resolve")
	}
}

func TestIsIgnored(t *testing.T) {
	if !IsIgnored("Références", false) {
		t.Error("références should be ignored at literal level")
	}
	if !IsIgnored("traductions", true) {
		t.Error("traductions should be ignored at entry level")
	}
	if IsIgnored("synonymes", true) {
		t.Error("synonymes must not be ignored at entry level")
	}
	if !IsIgnored("synonymes", false) {
		t.Error("synonymes is ignored at literal level")
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load from an empty directory should fail")
	}
	if err := VerifyDir(t.TempDir()); err == nil {
		t.Error("VerifyDir on an empty directory should fail")
	}
}
