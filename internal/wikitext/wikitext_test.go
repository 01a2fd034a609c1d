package wikitext

import (
	"strings"
	"testing"
)

const sampleArticle = `== {{langue|fr}} ==
=== {{S|étymologie}} ===
: Du latin ''cattus''.
=== {{S|nom|fr}} ===
{{fr-rég|ʃa}}
'''chat''' {{pron|ʃa|fr}} {{m}}
# Petit félin domestique.
#* ''Le '''chat''' dort.''
==== {{S|synonymes}} ====
* [[matou]]
* [[minet|minou]]
== {{langue|en}} ==
=== {{S|verbe|en}} ===
# To chat.
`

func TestParseSectionsTree(t *testing.T) {
	roots := ParseSections(sampleArticle, 2)
	if len(roots) != 2 {
		t.Fatalf("roots: got %d, want 2", len(roots))
	}

	fr := roots[0]
	if fr.Title != "langue|fr" || fr.Level != 2 {
		t.Errorf("first root: got %q level %d", fr.Title, fr.Level)
	}
	if len(fr.Subsections) != 2 {
		t.Fatalf("fr subsections: got %d, want 2", len(fr.Subsections))
	}

	nom := fr.Subsections[1]
	if nom.Title != "S|nom|fr" {
		t.Errorf("nom title: got %q", nom.Title)
	}
	if len(nom.Subsections) != 1 || nom.Subsections[0].Title != "S|synonymes" {
		t.Fatalf("nom subsections: %+v", nom.Subsections)
	}
	if nom.Subsections[0].Level != 4 {
		t.Errorf("synonymes level: got %d, want 4", nom.Subsections[0].Level)
	}

	// Body stops before the first subsection.
	if want := "# Petit félin domestique."; !strings.Contains(nom.Body, want) {
		t.Errorf("nom body missing %q:\n%s", want, nom.Body)
	}
	if strings.Contains(nom.Body, "matou") {
		t.Errorf("nom body leaked subsection content:\n%s", nom.Body)
	}
}

func TestParseSectionsMalformed(t *testing.T) {
	// Unbalanced headings and braces must not panic and must degrade.
	roots := ParseSections("== {{langue|fr\nplain text\n=== no template ===\n", 2)
	if len(roots) != 0 {
		t.Errorf("got %d roots from malformed input, want 0", len(roots))
	}
}

func TestFindTemplates(t *testing.T) {
	tpls := FindTemplates("'''chat''' {{pron|ʃa|fr}} {{m}} {{fr-verbe-flexion|chanter|ind.p.3s=oui}}")
	if len(tpls) != 3 {
		t.Fatalf("templates: got %d, want 3", len(tpls))
	}
	if tpls[0].Name != "pron" || tpls[0].Arg(0) != "ʃa" || tpls[0].Arg(1) != "fr" {
		t.Errorf("pron template: %+v", tpls[0])
	}
	if tpls[1].Name != "m" || len(tpls[1].Positional) != 0 {
		t.Errorf("m template: %+v", tpls[1])
	}
	flex := tpls[2]
	if flex.Name != "fr-verbe-flexion" || flex.Arg(0) != "chanter" {
		t.Errorf("flexion template: %+v", flex)
	}
	if flex.Named["ind.p.3s"] != "oui" {
		t.Errorf("flexion named args: %+v", flex.Named)
	}
}

func TestFindTemplatesNested(t *testing.T) {
	tpls := FindTemplates("{{outer|{{inner|x}}|b}} tail")
	if len(tpls) != 1 {
		t.Fatalf("templates: got %d, want 1", len(tpls))
	}
	if tpls[0].Name != "outer" {
		t.Errorf("name: got %q", tpls[0].Name)
	}
	if tpls[0].Arg(0) != "{{inner|x}}" || tpls[0].Arg(1) != "b" {
		t.Errorf("args: %+v", tpls[0].Positional)
	}
}

func TestFindTemplatesUnbalanced(t *testing.T) {
	if tpls := FindTemplates("{{pron|ʃa"); len(tpls) != 0 {
		t.Errorf("unbalanced braces produced templates: %+v", tpls)
	}
}

func TestFindLinks(t *testing.T) {
	links := FindLinks("* [[matou]]\n* [[minet|minou]]\n* [[chien#fr|chiens]]")
	if len(links) != 3 {
		t.Fatalf("links: got %d, want 3", len(links))
	}
	if links[0].Target != "matou" || links[0].Display != "matou" {
		t.Errorf("link 0: %+v", links[0])
	}
	if links[1].Target != "minet" || links[1].Display != "minou" {
		t.Errorf("link 1: %+v", links[1])
	}
	if links[2].Target != "chien" {
		t.Errorf("link 2 target: got %q, want chien (anchor stripped)", links[2].Target)
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"# Petit félin domestique.", "Petit félin domestique."},
		{"# {{zoologie|fr}} Petit félin.", "Petit félin."},
		{"#* ''Le '''chat''' dort.''", "\"Le chat dort.\""},
		{"# [[animal|Animal]] de compagnie.", "Animal de compagnie."},
		{"#  espaces   multiples", "espaces multiples"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
