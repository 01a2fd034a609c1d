// Package export streams the populated graph to an N-Triples file. The scan
// walks the store in key order with keyset pagination, persists a checkpoint
// after every page and resumes from it after an interrupted run.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/flontology/flont/internal/domain"
)

// BaseIRI prefixes every node and predicate of the exported graph.
const BaseIRI = "https://ontology.chalier.fr/flont#"

const rdfType = "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>"

// Store is the slice of the graph store the exporter reads from.
type Store interface {
	LiteralPage(ctx context.Context, afterKey string, limit uint64) ([]domain.Literal, error)
	EntryPage(ctx context.Context, afterKey string, limit uint64) ([]domain.LexicalEntry, error)
	SensePage(ctx context.Context, afterKey string, limit uint64) ([]domain.LexicalSense, error)
	InflectionPage(ctx context.Context, after domain.InflectionForm, limit uint64) ([]domain.InflectionForm, error)
	RelationPage(ctx context.Context, after domain.Relation, limit uint64) ([]domain.Relation, error)
}

// Options tune the exporter. Zero values fall back to defaults.
type Options struct {
	PageSize        uint64
	MaxRetryElapsed time.Duration
}

const (
	defaultPageSize        = 1000
	defaultMaxRetryElapsed = 30 * time.Second
)

// Exporter streams the graph as N-Triples.
type Exporter struct {
	store Store
	log   *slog.Logger
	opts  Options
}

// New creates an Exporter over the given store.
func New(store Store, log *slog.Logger, opts Options) *Exporter {
	if opts.PageSize == 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.MaxRetryElapsed <= 0 {
		opts.MaxRetryElapsed = defaultMaxRetryElapsed
	}
	return &Exporter{store: store, log: log, opts: opts}
}

// Run exports the whole graph to path. If a checkpoint from an earlier
// interrupted export of the same path exists, the run resumes after the
// last fully written page. Returns the total number of triples written.
func (e *Exporter) Run(ctx context.Context, path string) (int64, error) {
	cp, out, err := openResumable(path)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	w := &tripleWriter{w: out.Writer(), written: cp.Triples}

	phases := []struct {
		name string
		run  func(ctx context.Context, cp *checkpoint, w *tripleWriter) error
	}{
		{phaseLiterals, e.exportLiterals},
		{phaseEntries, e.exportEntries},
		{phaseSenses, e.exportSenses},
		{phaseInflections, e.exportInflections},
		{phaseRelations, e.exportRelations},
	}

	for _, phase := range phases {
		if cp.passed(phase.name) {
			continue
		}
		cp.enter(phase.name)
		if err := phase.run(ctx, cp, w); err != nil {
			return w.written, fmt.Errorf("export %s: %w", phase.name, err)
		}
	}

	if err := out.Finish(); err != nil {
		return w.written, err
	}

	e.log.Info("export finished", "path", path, "triples", w.written)
	return w.written, nil
}

func (e *Exporter) exportLiterals(ctx context.Context, cp *checkpoint, w *tripleWriter) error {
	for {
		var page []domain.Literal
		err := e.retry(ctx, func() error {
			var err error
			page, err = e.store.LiteralPage(ctx, cp.key(), e.opts.PageSize)
			return err
		})
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		for _, l := range page {
			w.node(l.Key, rdfType, iri("Literal"))
			w.literal(l.Key, "label", l.Title)
			if l.Etymology != "" {
				w.literal(l.Key, "etymology", l.Etymology)
			}
			if l.Pronunciation != "" {
				w.literal(l.Key, "pronunciation", l.Pronunciation)
			}
		}
		if err := w.err(); err != nil {
			return err
		}

		if err := cp.advance([]string{page[len(page)-1].Key}, w.written); err != nil {
			return err
		}
	}
}

func (e *Exporter) exportEntries(ctx context.Context, cp *checkpoint, w *tripleWriter) error {
	for {
		var page []domain.LexicalEntry
		err := e.retry(ctx, func() error {
			var err error
			page, err = e.store.EntryPage(ctx, cp.key(), e.opts.PageSize)
			return err
		})
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		for _, entry := range page {
			w.node(entry.Key, rdfType, iri(classTypeName(entry.Class)))
			w.node(entry.LiteralKey, predicate("isLiteralOf"), iri(entry.Key))
			if entry.Pronunciation != "" {
				w.literal(entry.Key, "pronunciation", entry.Pronunciation)
			}
			for _, g := range entry.Genders {
				w.literal(entry.Key, "hasGender", string(g))
			}
			for _, n := range entry.Numbers {
				w.literal(entry.Key, "hasNumber", string(n))
			}
		}
		if err := w.err(); err != nil {
			return err
		}

		if err := cp.advance([]string{page[len(page)-1].Key}, w.written); err != nil {
			return err
		}
	}
}

func (e *Exporter) exportSenses(ctx context.Context, cp *checkpoint, w *tripleWriter) error {
	for {
		var page []domain.LexicalSense
		err := e.retry(ctx, func() error {
			var err error
			page, err = e.store.SensePage(ctx, cp.key(), e.opts.PageSize)
			return err
		})
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		for _, sense := range page {
			w.node(sense.Key, rdfType, iri("LexicalSense"))
			w.node(sense.EntryKey, predicate("hasSense"), iri(sense.Key))
			if sense.Definition.Gloss != "" {
				w.literal(sense.Key, "definition", sense.Definition.Gloss)
			}
			for _, ex := range sense.Definition.Examples {
				w.literal(sense.Key, "example", ex)
			}
			for _, tag := range sense.Definition.Tags {
				w.literal(sense.Key, "hasPrecision", tag)
			}
			if sense.Definition.DependsOnKey != "" {
				w.node(sense.Key, predicate("dependsOn"), iri(sense.Definition.DependsOnKey))
			}
		}
		if err := w.err(); err != nil {
			return err
		}

		if err := cp.advance([]string{page[len(page)-1].Key}, w.written); err != nil {
			return err
		}
	}
}

func (e *Exporter) exportInflections(ctx context.Context, cp *checkpoint, w *tripleWriter) error {
	for {
		after := cp.inflectionCursor()
		var page []domain.InflectionForm
		err := e.retry(ctx, func() error {
			var err error
			page, err = e.store.InflectionPage(ctx, after, e.opts.PageSize)
			return err
		})
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		for _, f := range page {
			w.node(f.EntryKey, predicate("inflection_"+string(f.Feature)), iri(f.TargetKey))
		}
		if err := w.err(); err != nil {
			return err
		}

		last := page[len(page)-1]
		if err := cp.advance([]string{last.EntryKey, string(last.Feature), last.TargetKey}, w.written); err != nil {
			return err
		}
	}
}

func (e *Exporter) exportRelations(ctx context.Context, cp *checkpoint, w *tripleWriter) error {
	for {
		after := cp.relationCursor()
		var page []domain.Relation
		err := e.retry(ctx, func() error {
			var err error
			page, err = e.store.RelationPage(ctx, after, e.opts.PageSize)
			return err
		})
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}

		for _, rel := range page {
			w.node(rel.SourceKey, predicate(relationPredicate(rel.Kind)), iri(rel.TargetKey))
		}
		if err := w.err(); err != nil {
			return err
		}

		last := page[len(page)-1]
		if err := cp.advance([]string{last.SourceKey, string(last.Kind), last.TargetKey}, w.written); err != nil {
			return err
		}
	}
}

func (e *Exporter) retry(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = e.opts.MaxRetryElapsed
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}

// tripleWriter formats N-Triples lines and remembers the first write error.
type tripleWriter struct {
	w       io.Writer
	written int64
	failed  error
}

func (t *tripleWriter) node(subjectKey, pred, object string) {
	t.emit(fmt.Sprintf("%s %s %s .\n", iri(subjectKey), pred, object))
}

func (t *tripleWriter) literal(subjectKey, property, value string) {
	t.emit(fmt.Sprintf("%s %s \"%s\" .\n", iri(subjectKey), predicate(property), escape(value)))
}

func (t *tripleWriter) emit(line string) {
	if t.failed != nil {
		return
	}
	if _, err := io.WriteString(t.w, line); err != nil {
		t.failed = err
		return
	}
	t.written++
}

func (t *tripleWriter) err() error {
	return t.failed
}

func iri(name string) string {
	return "<" + BaseIRI + name + ">"
}

func predicate(name string) string {
	return "<" + BaseIRI + name + ">"
}

// escape applies N-Triples string literal escaping.
func escape(s string) string {
	var out []rune
	for _, r := range s {
		switch r {
		case '\\':
			out = append(out, '\\', '\\')
		case '"':
			out = append(out, '\\', '"')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// classTypeName maps a grammatical class to its ontology class name.
func classTypeName(c domain.GrammaticalClass) string {
	switch c {
	case domain.ClassAdjective:
		return "Adjective"
	case domain.ClassAdposition:
		return "Adposition"
	case domain.ClassAdverb:
		return "Adverb"
	case domain.ClassAffix:
		return "Affix"
	case domain.ClassArticle:
		return "Article"
	case domain.ClassConjunction:
		return "Conjunction"
	case domain.ClassInterjection:
		return "Interjection"
	case domain.ClassLetter:
		return "Letter"
	case domain.ClassNoun:
		return "Noun"
	case domain.ClassParticle:
		return "Particle"
	case domain.ClassPronoun:
		return "Pronoun"
	case domain.ClassSentence:
		return "Sentence"
	case domain.ClassSymbol:
		return "Symbol"
	case domain.ClassVerb:
		return "Verb"
	}
	return "LexicalEntry"
}

// relationPredicate maps a relation kind to its ontology object property.
func relationPredicate(k domain.RelationKind) string {
	switch k {
	case domain.RelationSynonym:
		return "isSynonymOf"
	case domain.RelationQuasiSynonym:
		return "isQuasiSynonymOf"
	case domain.RelationAntonym:
		return "isAntonymOf"
	case domain.RelationHypernym:
		return "isHypernymOf"
	case domain.RelationHyponym:
		return "isHyponymOf"
	case domain.RelationMeronym:
		return "isMeronymOf"
	case domain.RelationHolonym:
		return "isHolonymOf"
	case domain.RelationTroponym:
		return "isTroponymOf"
	case domain.RelationDerived:
		return "hasDerivedWord"
	case domain.RelationRelated:
		return "isRelatedTo"
	case domain.RelationVocabulary:
		return "hasVocabulary"
	case domain.RelationVariant:
		return "isVariantOf"
	case domain.RelationAbbreviation:
		return "hasAbbreviation"
	case domain.RelationDiminutive:
		return "hasDiminutive"
	case domain.RelationAnagram:
		return "isAnagramOf"
	}
	return "isRelatedTo"
}
