package article

import (
	"regexp"
	"strings"

	"github.com/flontology/flont/internal/domain"
)

// inflectionLink matches the target of an agreement description: either a
// {{lien|target|...}} template or a bare [[target]] wikilink.
const inflectionLink = `(?:(?:\{l(?:ien)?\|(.*?)[|}])|(?:\[\[(.*?)\]\]))`

// agreementPatterns recognize definition lines that describe an inflected
// form ("Féminin de chat", "Pluriel de cheval") instead of a meaning. A
// match yields an InflectionForm and suppresses the sense for that line.
var agreementPatterns = []struct {
	feature  domain.InflectionFeature
	patterns []*regexp.Regexp
}{
	{domain.FeatureFeminine, []*regexp.Regexp{
		regexp.MustCompile(`[Ff]éminin(?: singulier)?[' ]*d[ue’'].*` + inflectionLink),
		regexp.MustCompile(`Forme féminine d[e’'].*` + inflectionLink),
	}},
	{domain.FeatureFemininePlural, []*regexp.Regexp{
		regexp.MustCompile(`[Ff]éminin pluriel[' ]*d[e’'].*` + inflectionLink),
		regexp.MustCompile(`Masculin et féminin pluriels d[e’'].*` + inflectionLink),
	}},
	{domain.FeatureMasculinePlural, []*regexp.Regexp{
		regexp.MustCompile(`[Mm]asculin pluriel[' ]*d[e’'].*` + inflectionLink),
		regexp.MustCompile(`Masculin et féminin pluriels d[e’'].*` + inflectionLink),
	}},
	{domain.FeaturePlural, []*regexp.Regexp{
		regexp.MustCompile(`[Pp]luriel(?:le)?(?: traditionnel)?[' ]*d[e’'].*` + inflectionLink),
		regexp.MustCompile(`[Pp]luriel[' ]*du nom.*` + inflectionLink),
		regexp.MustCompile(`Un des(?: deux)? pluriels d[e’'].*` + inflectionLink),
	}},
}

// matchAgreement tests a raw definition line against the agreement
// patterns. It returns the inflection facts found; a non-empty result means
// the line is an inflection description, not a sense. Entry keys are filled
// in once ordinals are assigned.
func matchAgreement(rawDefinition string) []domain.InflectionForm {
	var forms []domain.InflectionForm
	for _, group := range agreementPatterns {
		for _, re := range group.patterns {
			m := re.FindStringSubmatch(rawDefinition)
			if m == nil {
				continue
			}
			target := m[1]
			if target == "" {
				// Wikilink capture: strip pipe and anchor parts.
				target = strings.TrimSpace(m[2])
				target = strings.SplitN(target, "|", 2)[0]
				target = strings.SplitN(target, "#", 2)[0]
			}
			target = strings.TrimSpace(target)
			if target == "" {
				continue
			}
			forms = append(forms, domain.InflectionForm{
				Feature:   group.feature,
				TargetKey: domain.LiteralKey(target),
			})
			break
		}
	}
	return forms
}
