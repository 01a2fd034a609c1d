// Package wikitext turns raw wiki markup into an ordered section tree with
// template invocations and hyperlinks. Malformed constructs degrade to plain
// text; parsing never fails an article outright.
package wikitext

import (
	"regexp"
	"strings"
)

var (
	headingRE = regexp.MustCompile(`^(=+) *{{(.+?)}} *=*\s*$`)
	linkRE    = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|([^\[\]]*))?\]\]`)

	bracesRE    = regexp.MustCompile(`{{[^{}]*}}`)
	bracketsRE  = regexp.MustCompile(`\[\[(?:[^\[\]|]*\|)?([^\[\]|]*)\]\]`)
	listMarkRE  = regexp.MustCompile(`^ *#+ *\*? *`)
	boldRE      = regexp.MustCompile(`'''`)
	multiSpaces = regexp.MustCompile(`  +`)
)

// Section is one node of the heading tree. Body holds the lines between the
// section heading and its first subsection; deeper headings become
// Subsections in document order.
type Section struct {
	// Title is the inner text of the heading template, e.g. "langue|fr"
	// or "S|nom|fr". Headings that are not template-shaped do not open
	// sections and stay in the enclosing body.
	Title       string
	Level       int
	Body        string
	Subsections []*Section
}

// Template is one template invocation: {{name|pos1|pos2|key=value}}.
type Template struct {
	Name       string
	Positional []string
	Named      map[string]string
}

// Arg returns the i-th positional argument (0-based) or "".
func (t Template) Arg(i int) string {
	if i < 0 || i >= len(t.Positional) {
		return ""
	}
	return t.Positional[i]
}

// Link is a hyperlink span. Target is the literal named by the link with
// pipe and anchor parts removed; Display is the rendered text.
type Link struct {
	Target  string
	Display string
}

// Heading is one table-of-contents row of an article.
type Heading struct {
	Level int
	Title string
}

// Headings lists every template-shaped heading of an article in document
// order, without building the section tree.
func Headings(text string) []Heading {
	var out []Heading
	for _, line := range strings.Split(text, "\n") {
		if m := headingRE.FindStringSubmatch(line); m != nil {
			out = append(out, Heading{Level: len(m[1]), Title: m[2]})
		}
	}
	return out
}

// ParseSections builds the section tree of an article. Sections above
// minLevel (usually 2) are returned as roots; intervening text outside any
// heading is discarded, matching how the dump articles are structured.
func ParseSections(text string, minLevel int) []*Section {
	var roots []*Section
	var stack []*Section

	var body strings.Builder
	flush := func() {
		if len(stack) == 0 {
			body.Reset()
			return
		}
		top := stack[len(stack)-1]
		if top.Body == "" {
			top.Body = strings.TrimRight(body.String(), "\n")
		}
		body.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		m := headingRE.FindStringSubmatch(line)
		if m == nil {
			if len(stack) > 0 && len(stack[len(stack)-1].Subsections) == 0 {
				body.WriteString(line)
				body.WriteString("\n")
			}
			continue
		}

		level := len(m[1])
		if level < minLevel {
			// Too shallow for the tree; treat as body text.
			continue
		}

		flush()
		sec := &Section{Title: strings.TrimSpace(m[2]), Level: level}

		for len(stack) > 0 && stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, sec)
		} else {
			stack[len(stack)-1].Subsections = append(stack[len(stack)-1].Subsections, sec)
		}
		stack = append(stack, sec)
	}
	flush()

	return roots
}

// FindTemplates extracts template invocations from a span of text. Nested
// templates inside argument values are kept verbatim in the argument text.
// Unbalanced braces are ignored rather than reported.
func FindTemplates(text string) []Template {
	var out []Template
	for i := 0; i < len(text); {
		start := strings.Index(text[i:], "{{")
		if start < 0 {
			break
		}
		start += i
		end, ok := matchBraces(text, start)
		if !ok {
			break
		}
		if tpl, ok := parseTemplate(text[start+2 : end-2]); ok {
			out = append(out, tpl)
		}
		i = end
	}
	return out
}

// matchBraces finds the closing "}}" for the "{{" at start, tolerating one
// level of nesting. Returns the index just past the closing braces.
func matchBraces(text string, start int) (int, bool) {
	depth := 0
	for i := start; i+1 < len(text); i++ {
		switch {
		case text[i] == '{' && text[i+1] == '{':
			depth++
			i++
		case text[i] == '}' && text[i+1] == '}':
			depth--
			i++
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

func parseTemplate(inner string) (Template, bool) {
	if strings.TrimSpace(inner) == "" {
		return Template{}, false
	}
	parts := splitArgs(inner)
	tpl := Template{Name: strings.TrimSpace(parts[0])}
	if tpl.Name == "" {
		return Template{}, false
	}
	for _, part := range parts[1:] {
		if eq := strings.Index(part, "="); eq >= 0 && !strings.Contains(part[:eq], "{{") {
			if tpl.Named == nil {
				tpl.Named = make(map[string]string)
			}
			tpl.Named[strings.TrimSpace(part[:eq])] = strings.TrimSpace(part[eq+1:])
		} else {
			tpl.Positional = append(tpl.Positional, strings.TrimSpace(part))
		}
	}
	return tpl, true
}

// splitArgs splits template content on "|" while skipping pipes that belong
// to nested templates or links.
func splitArgs(inner string) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(inner); i++ {
		switch {
		case i+1 < len(inner) && (inner[i] == '{' && inner[i+1] == '{' || inner[i] == '[' && inner[i+1] == '['):
			depth++
			i++
		case i+1 < len(inner) && (inner[i] == '}' && inner[i+1] == '}' || inner[i] == ']' && inner[i+1] == ']'):
			depth--
			i++
		case inner[i] == '|' && depth == 0:
			parts = append(parts, inner[last:i])
			last = i + 1
		}
	}
	parts = append(parts, inner[last:])
	return parts
}

// FindLinks extracts hyperlinks from a span of text. Anchor fragments are
// stripped from targets; the display text defaults to the target.
func FindLinks(text string) []Link {
	matches := linkRE.FindAllStringSubmatch(text, -1)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		target := strings.TrimSpace(m[1])
		if hash := strings.Index(target, "#"); hash >= 0 {
			target = strings.TrimSpace(target[:hash])
		}
		if target == "" {
			continue
		}
		display := strings.TrimSpace(m[2])
		if display == "" {
			display = target
		}
		links = append(links, Link{Target: target, Display: display})
	}
	return links
}

// Clean strips markup from a line of text: template invocations are removed,
// links collapse to their display text, list markers and quote runs are
// dropped, spaces are compressed.
func Clean(text string) string {
	text = listMarkRE.ReplaceAllString(text, "")
	for strings.Contains(text, "{{") {
		next := bracesRE.ReplaceAllString(text, "")
		if next == text {
			break
		}
		text = next
	}
	text = bracketsRE.ReplaceAllString(text, "$1")
	text = boldRE.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "''", "\"")
	text = multiSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
