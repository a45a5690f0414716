package analysis

import "strings"

// stopwords excluded from coherence overlap so filler words don't count as
// topical continuity.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "i": {}, "me": {}, "my": {}, "you": {},
	"your": {}, "it": {}, "is": {}, "am": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "to": {}, "of": {}, "in": {}, "on": {}, "at": {}, "and": {},
	"or": {}, "but": {}, "so": {}, "do": {}, "did": {}, "not": {}, "no": {},
	"yes": {}, "that": {}, "this": {}, "what": {}, "have": {}, "has": {},
	"for": {}, "with": {}, "about": {},
}

// normalize lowercases text and strips everything except letters, digits,
// apostrophes and single spaces. The normalized form is also the repetition
// fingerprint.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func tokens(text string) []string {
	n := normalize(text)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}

func contentTokens(text string) []string {
	var out []string
	for _, t := range tokens(text) {
		if _, skip := stopwords[t]; !skip {
			out = append(out, t)
		}
	}
	return out
}

// countMarkers counts non-overlapping occurrences of each marker phrase in
// the normalized text, on word boundaries.
func countMarkers(normalized string, markers []string) int {
	if normalized == "" {
		return 0
	}
	padded := " " + normalized + " "
	count := 0
	for _, m := range markers {
		nm := normalize(m)
		if nm == "" {
			continue
		}
		count += strings.Count(padded, " "+nm+" ")
	}
	return count
}

// firstMarker returns the first marker phrase found in the normalized text,
// or "" when none match.
func firstMarker(normalized string, markers []string) string {
	padded := " " + normalized + " "
	for _, m := range markers {
		nm := normalize(m)
		if nm == "" {
			continue
		}
		if strings.Contains(padded, " "+nm+" ") {
			return nm
		}
	}
	return ""
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
