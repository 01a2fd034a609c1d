package audit

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/flontology/flont/internal/dump"
	"github.com/flontology/flont/internal/wikitext"
)

// tocKey identifies one distinct section heading across the dump.
type tocKey struct {
	level int
	title string
}

type tocStat struct {
	occurrences int
	article     string // title of the first article carrying the heading
}

// ExtractTOCs scans every article's headings and writes the distribution to
// w as TSV: level, section title, occurrence count and one example article.
// Returns the number of distinct headings.
func (a *Auditor) ExtractTOCs(ctx context.Context, src Source, w io.Writer) (int, error) {
	tocs := make(map[tocKey]*tocStat)

	err := src.Each(ctx, 0, func(row dump.Row) error {
		for _, h := range wikitext.Headings(row.Content) {
			key := tocKey{level: h.Level, title: h.Title}
			if stat, ok := tocs[key]; ok {
				stat.occurrences++
			} else {
				tocs[key] = &tocStat{occurrences: 1, article: row.Title}
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan headings: %w", err)
	}

	keys := make([]tocKey, 0, len(tocs))
	for key := range tocs {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].level != keys[j].level {
			return keys[i].level < keys[j].level
		}
		return keys[i].title < keys[j].title
	})

	out := bufio.NewWriter(w)
	if _, err := out.WriteString("level\tsection_title\toccurrences\tarticle_title\n"); err != nil {
		return 0, fmt.Errorf("write toc header: %w", err)
	}
	for _, key := range keys {
		stat := tocs[key]
		if _, err := fmt.Fprintf(out, "%d\t%s\t%d\t%s\n",
			key.level, key.title, stat.occurrences, stat.article); err != nil {
			return 0, fmt.Errorf("write toc row: %w", err)
		}
	}
	if err := out.Flush(); err != nil {
		return 0, fmt.Errorf("flush toc output: %w", err)
	}

	a.log.Info("toc extraction finished", "distinct_headings", len(keys))
	return len(keys), nil
}
