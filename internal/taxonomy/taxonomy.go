// Package taxonomy loads the section-title and template tables that drive
// classification: part-of-speech models, relation-group titles, definition
// qualifiers and conjugation features. Defaults are embedded; a resource
// directory with the same file names overrides them.
package taxonomy

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/flontology/flont/internal/domain"
)

//go:embed resources/*.csv
var defaultResources embed.FS

const (
	posFile         = "pos.csv"
	relationsFile   = "relations.csv"
	qualifiersFile  = "qualifiers.csv"
	conjugationFile = "conjugation.csv"
)

// Qualifier is a definition qualifier template: a register/domain tag, or a
// relationship marker that links a definition to the previous one.
type Qualifier struct {
	Label      string
	Dependency bool
}

// Taxonomy holds the loaded tables. Lookup keys are normalized with
// domain.NormalizeTitle, so callers pass raw titles.
type Taxonomy struct {
	pos         map[string]domain.GrammaticalClass
	relations   map[string]domain.RelationKind
	qualifiers  map[string]Qualifier
	conjugation map[string]domain.InflectionFeature
}

// Load reads the taxonomy tables from dir. An empty dir loads the embedded
// defaults. A missing or unreadable table is fatal: the classifier cannot
// run without its vocabulary.
func Load(dir string) (*Taxonomy, error) {
	open := func(name string) (io.ReadCloser, error) {
		if dir == "" {
			f, err := defaultResources.Open("resources/" + name)
			if err != nil {
				return nil, err
			}
			return f, nil
		}
		return os.Open(filepath.Join(dir, name))
	}

	t := &Taxonomy{
		pos:         make(map[string]domain.GrammaticalClass),
		relations:   make(map[string]domain.RelationKind),
		qualifiers:  make(map[string]Qualifier),
		conjugation: make(map[string]domain.InflectionFeature),
	}

	if err := loadTable(open, posFile, func(key, val, _ string) error {
		class := domain.GrammaticalClass(val)
		if !class.IsValid() {
			return fmt.Errorf("unknown class %q", val)
		}
		t.pos[domain.NormalizeTitle(key)] = class
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadTable(open, relationsFile, func(key, val, _ string) error {
		kind := domain.RelationKind(val)
		if !kind.IsValid() {
			return fmt.Errorf("unknown relation kind %q", val)
		}
		t.relations[domain.NormalizeTitle(key)] = kind
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadTable(open, qualifiersFile, func(key, val, extra string) error {
		t.qualifiers[domain.NormalizeTitle(key)] = Qualifier{
			Label:      val,
			Dependency: extra == "relationship",
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadTable(open, conjugationFile, func(key, val, _ string) error {
		t.conjugation[key] = domain.InflectionFeature(val)
		return nil
	}); err != nil {
		return nil, err
	}

	return t, nil
}

// loadTable reads one CSV table. The first column may pack several keys
// separated by semicolons; each is registered against the second column.
// A third column, when present, is passed through as extra.
func loadTable(open func(string) (io.ReadCloser, error), name string, add func(key, val, extra string) error) error {
	f, err := open(name)
	if err != nil {
		return fmt.Errorf("taxonomy: open %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	// Skip header row.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return fmt.Errorf("taxonomy: %s is empty", name)
		}
		return fmt.Errorf("taxonomy: read %s header: %w", name, err)
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("taxonomy: read %s line %d: %w", name, line, err)
		}
		line++
		if len(record) < 2 {
			continue
		}
		val := strings.TrimSpace(record[1])
		extra := ""
		if len(record) > 2 {
			extra = strings.TrimSpace(record[2])
		}
		for _, key := range strings.Split(record[0], ";") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if err := add(key, val, extra); err != nil {
				return fmt.Errorf("taxonomy: %s line %d: %w", name, line, err)
			}
		}
	}
	return nil
}

// ClassFor resolves a part-of-speech model title to its grammatical class.
func (t *Taxonomy) ClassFor(title string) (domain.GrammaticalClass, bool) {
	c, ok := t.pos[domain.NormalizeTitle(title)]
	return c, ok
}

// RelationFor resolves a relation-group section title to its edge kind.
func (t *Taxonomy) RelationFor(title string) (domain.RelationKind, bool) {
	k, ok := t.relations[domain.NormalizeTitle(title)]
	return k, ok
}

// QualifierFor resolves a definition template name to its qualifier.
func (t *Taxonomy) QualifierFor(name string) (Qualifier, bool) {
	q, ok := t.qualifiers[domain.NormalizeTitle(name)]
	return q, ok
}

// ConjugationFeature resolves a conjugation-flexion argument name. Argument
// names are exact template keys ("ind.p.3s"), not titles, so no
// normalization applies.
func (t *Taxonomy) ConjugationFeature(arg string) (domain.InflectionFeature, bool) {
	f, ok := t.conjugation[arg]
	return f, ok
}

// sections recognized but deliberately skipped at literal level.
var literalIgnored = map[string]struct{}{
	"references": {}, "voir aussi": {}, "voir": {}, "variante typographique": {},
	"liens externes": {}, "traductions": {}, "sources": {}, "erreur": {},
	"faute": {}, "synonymes": {}, "variante": {}, "homophones": {},
	"homophone": {}, "paronymes": {}, "quasi-synonymes": {},
}

// sections recognized but deliberately skipped at entry level.
var entryIgnored = map[string]struct{}{
	"notes": {}, "note": {}, "remarque": {}, "transcriptions": {},
	"translitterations": {}, "derives autres langues": {}, "faux-amis": {},
	"apparentes etymologiques": {}, "voir aussi": {}, "voir": {},
	"trad-trier": {}, "traductions": {}, "videos": {}, "references": {},
	"liens externes": {},
}

// IsIgnored reports whether a section title is on the ignore list for its
// level. Ignored titles are neither processed nor reported as unknown.
func IsIgnored(title string, entryLevel bool) bool {
	normalized := domain.NormalizeTitle(title)
	if entryLevel {
		_, ok := entryIgnored[normalized]
		return ok
	}
	_, ok := literalIgnored[normalized]
	return ok
}

// VerifyDir checks that every expected table exists in dir. Used at startup
// for fail-fast validation of the --resources flag.
func VerifyDir(dir string) error {
	for _, name := range []string{posFile, relationsFile, qualifiersFile, conjugationFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("taxonomy: missing resource %s: %w", name, err)
		}
	}
	return nil
}
