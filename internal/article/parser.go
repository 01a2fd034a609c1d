// Package article recovers the grammatical structure of one wiki article:
// it classifies sections against the taxonomy, interprets recognized
// templates and produces the graph entities for the article's literal.
// Parsing is a pure function of one article, so articles can be parsed
// concurrently.
package article

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/flontology/flont/internal/domain"
	"github.com/flontology/flont/internal/taxonomy"
	"github.com/flontology/flont/internal/wikitext"
)

var (
	definitionRE = regexp.MustCompile(`^ *(#+) *(\*?) *(.*)`)
	templateRE   = regexp.MustCompile(`{{(.*?)}}`)
)

// targetLanguage selects which language section of an article is parsed.
// Everything outside it is skipped without diagnostics.
const targetLanguage = "fr"

// conjugationTemplate is the verb-flexion template interpreted into
// inflection facts.
const conjugationTemplate = "fr-verbe-flexion"

// DiagKind categorizes per-article anomalies.
type DiagKind string

const (
	DiagUnknownSection   DiagKind = "unknown_section"
	DiagUnknownTemplate  DiagKind = "unknown_template"
	DiagMisplacedSection DiagKind = "misplaced_section"
	DiagNoLanguage       DiagKind = "no_language_section"
)

// Diagnostic reports one recoverable anomaly found while parsing.
type Diagnostic struct {
	Kind   DiagKind
	Detail string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
}

// Parser turns raw article text into a domain.Literal.
type Parser struct {
	tax *taxonomy.Taxonomy
}

// New creates a Parser over the given taxonomy.
func New(tax *taxonomy.Taxonomy) *Parser {
	return &Parser{tax: tax}
}

// rawSense is a definition line before ordinals are assigned.
type rawSense struct {
	gloss      string // cleaned text with qualifier templates removed
	tags       []string
	examples   []string
	dependency bool
	suppressed bool // inflection description, never becomes a sense
}

// parsedEntry pairs an entry with its senses-in-progress.
type parsedEntry struct {
	entry  domain.LexicalEntry
	senses []rawSense
}

// Parse parses one article. It always returns a literal (possibly with no
// entries); diagnostics carry the recoverable anomalies encountered.
func (p *Parser) Parse(title, content string) (*domain.Literal, []Diagnostic) {
	key := domain.LiteralKey(title)
	lit := &domain.Literal{
		ID:    domain.NewID(key),
		Key:   key,
		Title: title,
	}

	var diags []Diagnostic

	language := p.findLanguageSection(content)
	if language == nil {
		diags = append(diags, Diagnostic{DiagNoLanguage, title})
		return lit, diags
	}

	var entries []*parsedEntry
	for _, section := range language.Subsections {
		cls := p.Classify(section, false)
		switch cls.Role {
		case RoleEtymology:
			lit.Etymology = strings.TrimSpace(wikitext.Clean(section.Body))
		case RolePronunciation:
			if pron := extractPronunciation(section.Body); pron != "" {
				lit.Pronunciation = pron
			}
		case RoleAnagrams:
			for _, link := range wikitext.FindLinks(section.Body) {
				lit.Anagrams = append(lit.Anagrams, domain.Relation{
					SourceKey:   lit.Key,
					Kind:        domain.RelationAnagram,
					TargetKey:   domain.LiteralKey(link.Target),
					TargetLabel: link.Target,
				})
			}
		case RolePartOfSpeech:
			pe, entryDiags := p.parseEntry(lit, cls, section)
			entries = append(entries, pe)
			diags = append(diags, entryDiags...)
		case RoleRelationGroup:
			// Relation groups belong under a part-of-speech section;
			// process against the literal but flag the placement.
			diags = append(diags, Diagnostic{DiagMisplacedSection, cls.Model})
			for _, link := range wikitext.FindLinks(section.Body) {
				lit.Anagrams = append(lit.Anagrams, domain.Relation{
					SourceKey:   lit.Key,
					Kind:        cls.Kind,
					TargetKey:   domain.LiteralKey(link.Target),
					TargetLabel: link.Target,
				})
			}
		case RoleIgnored:
			// Recognized noise (references, translations, ...).
		default:
			diags = append(diags, Diagnostic{DiagUnknownSection, cls.Model})
		}
	}

	p.finalize(lit, entries)
	return lit, diags
}

// findLanguageSection locates the level-2 section for the target language.
func (p *Parser) findLanguageSection(content string) *wikitext.Section {
	for _, section := range wikitext.ParseSections(content, 2) {
		cls := p.Classify(section, false)
		if cls.Role == RoleLanguage && cls.LangCode == targetLanguage {
			return section
		}
	}
	return nil
}

// parseEntry builds one lexical entry from a part-of-speech section. Keys
// and ordinals are assigned later by finalize.
func (p *Parser) parseEntry(lit *domain.Literal, cls Classification, section *wikitext.Section) (*parsedEntry, []Diagnostic) {
	pe := &parsedEntry{
		entry: domain.LexicalEntry{
			LiteralKey: lit.Key,
			Class:      cls.Class,
		},
	}
	var diags []Diagnostic

	p.parseHead(pe, section.Body, &diags)

	for _, sub := range section.Subsections {
		subCls := p.Classify(sub, true)
		switch subCls.Role {
		case RoleRelationGroup:
			for _, link := range wikitext.FindLinks(sub.Body) {
				pe.entry.Relations = append(pe.entry.Relations, domain.Relation{
					Kind:        subCls.Kind,
					TargetKey:   domain.LiteralKey(link.Target),
					TargetLabel: link.Target,
				})
			}
		case RolePronunciation:
			if pron := extractPronunciation(sub.Body); pron != "" && pe.entry.Pronunciation == "" {
				pe.entry.Pronunciation = pron
			}
		case RoleIgnored, RoleAnagrams, RoleEtymology:
			// Handled at literal level or deliberately skipped.
		case RolePartOfSpeech, RoleLanguage:
			diags = append(diags, Diagnostic{DiagMisplacedSection, subCls.Model})
		default:
			diags = append(diags, Diagnostic{DiagUnknownSection, subCls.Model})
		}
	}

	return pe, diags
}

// parseHead interprets the entry head: pronunciation, gender/number traits,
// conjugation flexion facts and definition lines. Template scanning skips
// definition lines, which newSense interprets on its own.
func (p *Parser) parseHead(pe *parsedEntry, head string, diags *[]Diagnostic) {
	var headword []string
	for _, line := range strings.Split(head, "\n") {
		if definitionRE.MatchString(line) {
			continue
		}
		headword = append(headword, line)
	}

	for _, tpl := range wikitext.FindTemplates(strings.Join(headword, "\n")) {
		switch tpl.Name {
		case "pron":
			if pe.entry.Pronunciation == "" && tpl.Arg(0) != "" {
				pe.entry.Pronunciation = tpl.Arg(0)
			}
		case "m":
			pe.entry.Genders = append(pe.entry.Genders, domain.GenderMasculine)
		case "f":
			pe.entry.Genders = append(pe.entry.Genders, domain.GenderFeminine)
		case "mf":
			pe.entry.Genders = append(pe.entry.Genders, domain.GenderMasculine, domain.GenderFeminine)
		case "p":
			pe.entry.Numbers = append(pe.entry.Numbers, domain.NumberPlural)
		case "s":
			pe.entry.Numbers = append(pe.entry.Numbers, domain.NumberSingular)
		case conjugationTemplate:
			p.parseConjugation(&pe.entry, tpl)
		}
	}

	pe.senses = p.parseSenses(&pe.entry, head, diags)
}

// parseConjugation turns a verb-flexion template into inflection facts.
// The first positional argument names the base form; named arguments are
// looked up in the conjugation table, unknown ones are ignored.
func (p *Parser) parseConjugation(entry *domain.LexicalEntry, tpl wikitext.Template) {
	base := tpl.Arg(0)
	if base == "" {
		return
	}
	target := domain.LiteralKey(base)
	for arg := range tpl.Named {
		feature, ok := p.tax.ConjugationFeature(arg)
		if !ok {
			continue
		}
		entry.Inflections = append(entry.Inflections, domain.InflectionForm{
			Feature:   feature,
			TargetKey: target,
		})
	}
}

// parseSenses walks the definition lines of an entry head. '#' opens a
// definition, '#*' quotes an example for the current definition, deeper
// nesting is out of focus. Lines recognized as inflection descriptions are
// suppressed and contribute inflection facts instead.
func (p *Parser) parseSenses(entry *domain.LexicalEntry, head string, diags *[]Diagnostic) []rawSense {
	var senses []rawSense
	var current *rawSense

	flush := func() {
		if current != nil {
			senses = append(senses, *current)
			current = nil
		}
	}

	var pendingExamples []string
	for _, line := range strings.Split(head, "\n") {
		m := definitionRE.FindStringSubmatch(line)
		if m == nil || m[3] == "" {
			continue
		}
		if len(m[1]) > 1 {
			// Sub-definition, outside of our focus.
			continue
		}
		if m[2] != "" {
			example := wikitext.Clean(m[3])
			if example == "" {
				continue
			}
			if current != nil {
				current.examples = append(current.examples, example)
			} else {
				pendingExamples = append(pendingExamples, example)
			}
			continue
		}

		flush()
		rs := p.newSense(entry, m[3], diags)
		if len(pendingExamples) > 0 {
			rs.examples = append(pendingExamples, rs.examples...)
			pendingExamples = nil
		}
		current = &rs
	}
	flush()

	return senses
}

// newSense interprets one definition line: qualifier templates become tags
// (relationship qualifiers flag a dependency on the previous definition), a
// contained verb-flexion template or an agreement description suppresses
// the sense, remaining unknown templates are recorded and stripped.
func (p *Parser) newSense(entry *domain.LexicalEntry, raw string, diags *[]Diagnostic) rawSense {
	var rs rawSense

	stripped := templateRE.ReplaceAllStringFunc(raw, func(match string) string {
		inner := match[2 : len(match)-2]
		name := strings.TrimSpace(strings.SplitN(inner, "|", 2)[0])
		if name == "" {
			return match
		}
		if q, ok := p.tax.QualifierFor(name); ok {
			rs.tags = append(rs.tags, q.Label)
			if q.Dependency {
				rs.dependency = true
			}
			return ""
		}
		return match
	})

	// A flexion template inside the line yields forms, not a sense.
	for _, tpl := range wikitext.FindTemplates(raw) {
		if tpl.Name == conjugationTemplate {
			p.parseConjugation(entry, tpl)
			rs.suppressed = true
		}
	}

	if forms := matchAgreement(raw); len(forms) > 0 {
		entry.Inflections = append(entry.Inflections, forms...)
		rs.suppressed = true
	}

	if !rs.suppressed {
		for _, tpl := range wikitext.FindTemplates(stripped) {
			if tpl.Name != "lien" && tpl.Name != "pron" {
				*diags = append(*diags, Diagnostic{DiagUnknownTemplate, tpl.Name})
			}
		}
	}

	rs.gloss = wikitext.Clean(stripped)
	return rs
}

// extractPronunciation pulls the first {{pron}} transcription from a span.
func extractPronunciation(text string) string {
	for _, tpl := range wikitext.FindTemplates(text) {
		if tpl.Name == "pron" {
			return tpl.Arg(0)
		}
	}
	return ""
}

// finalize assigns deterministic keys and ordinals: entries are numbered
// per (literal, class) in section order, senses per entry in definition
// order after suppression. Pronunciation falls back from the literal to
// entries that did not carry their own; entries already set keep theirs.
func (p *Parser) finalize(lit *domain.Literal, entries []*parsedEntry) {
	classCounts := make(map[domain.GrammaticalClass]int)
	for _, pe := range entries {
		entry := pe.entry
		classCounts[entry.Class]++
		entry.Ordinal = classCounts[entry.Class]
		entry.Key = domain.EntryKey(lit.Key, entry.Class, entry.Ordinal)
		entry.ID = domain.NewID(entry.Key)

		if entry.Pronunciation == "" && lit.Pronunciation != "" {
			entry.Pronunciation = lit.Pronunciation
		}

		for _, rs := range pe.senses {
			if rs.suppressed {
				continue
			}
			ordinal := len(entry.Senses) + 1
			sense := domain.LexicalSense{
				Key:      domain.SenseKey(entry.Key, ordinal),
				EntryKey: entry.Key,
				Ordinal:  ordinal,
				Definition: domain.Definition{
					Gloss:    rs.gloss,
					Tags:     rs.tags,
					Examples: rs.examples,
				},
			}
			sense.ID = domain.NewID(sense.Key)
			if rs.dependency && ordinal > 1 {
				sense.Definition.DependsOnKey = domain.SenseKey(entry.Key, ordinal-1)
			}
			entry.Senses = append(entry.Senses, sense)
		}

		for j := range entry.Inflections {
			entry.Inflections[j].EntryKey = entry.Key
		}
		for j := range entry.Relations {
			entry.Relations[j].SourceKey = entry.Key
		}

		lit.Entries = append(lit.Entries, entry)
	}
}
