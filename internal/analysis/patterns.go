package analysis

import (
	"strings"
	"time"
)

type PatternCategory string

const (
	PatternMedication      PatternCategory = "medication_concern"
	PatternPain            PatternCategory = "pain_complaint"
	PatternHospitalRequest PatternCategory = "hospital_request"
	PatternStaffComplaint  PatternCategory = "staff_complaint"
	PatternDelusion        PatternCategory = "delusional_content"
	PatternSundowning      PatternCategory = "sundowning"
)

// PatternMatch is one detected occurrence of a clinical category. Matches
// accumulate on the session and are never retroactively edited.
type PatternMatch struct {
	Category   PatternCategory `json:"category"`
	Excerpt    string          `json:"excerpt"`
	Intensity  float64         `json:"intensity,omitempty"`
	DetectedAt time.Time       `json:"detected_at"`
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// BehaviorFlags are the observed-behavior inputs to the sundowning heuristic.
type BehaviorFlags struct {
	Agitation     bool `json:"agitation"`
	Confusion     bool `json:"confusion"`
	DesireToLeave bool `json:"desire_to_leave"`
}

// SundowningAssessment names each contributing condition so caregivers can
// see why the level was raised, not just that it was.
type SundowningAssessment struct {
	Level   RiskLevel `json:"level"`
	Factors []string  `json:"factors"`
}

type OnsetPattern string

const (
	OnsetSudden  OnsetPattern = "sudden"
	OnsetGradual OnsetPattern = "gradual"
)

type UTIAssessment struct {
	Risk       RiskLevel `json:"risk"`
	Indicators []string  `json:"indicators"`
}

// Matcher is the rule-based clinical pattern detector. Categories are
// independent: one utterance may match several.
type Matcher struct {
	lex *Lexicon
	th  Thresholds
}

func NewMatcher(lex *Lexicon, th Thresholds) *Matcher {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Matcher{lex: lex, th: th}
}

func (m *Matcher) DetectPatterns(text string, at time.Time) []PatternMatch {
	normalized := normalize(text)
	if normalized == "" {
		return nil
	}

	var out []PatternMatch
	add := func(cat PatternCategory, markers []string, intensity float64) {
		hit := firstMarker(normalized, markers)
		if hit == "" {
			return
		}
		out = append(out, PatternMatch{
			Category:   cat,
			Excerpt:    excerpt(normalized, hit),
			Intensity:  intensity,
			DetectedAt: at,
		})
	}

	add(PatternMedication, m.lex.Medication, 0)
	add(PatternPain, m.lex.Pain, m.painIntensity(normalized))
	add(PatternHospitalRequest, m.lex.HospitalRequest, 0)
	add(PatternStaffComplaint, m.lex.StaffComplaint, 0)
	add(PatternDelusion, m.lex.Delusion, 0)
	add(PatternSundowning, m.lex.Sundowning, 0)
	return out
}

// painIntensity grades a pain complaint 0..1: 0.5 for a plain mention, stepped
// up for each intensity marker.
func (m *Matcher) painIntensity(normalized string) float64 {
	if firstMarker(normalized, m.lex.Pain) == "" {
		return 0
	}
	intense := countMarkers(normalized, m.lex.PainIntense)
	return clamp(0.5+0.25*float64(intense), 0, 1)
}

// DetectSundowningRisk combines the time of day with observed behaviors.
// Each contributing condition raises the level one step: low → moderate →
// high.
func (m *Matcher) DetectSundowningRisk(hour int, behaviors BehaviorFlags) SundowningAssessment {
	var factors []string

	if hour >= m.th.SundowningStartHour && hour <= m.th.SundowningEndHour {
		factors = append(factors, "late afternoon or evening time window")
	}
	if behaviors.Agitation {
		factors = append(factors, "observed agitation")
	}
	if behaviors.Confusion {
		factors = append(factors, "observed confusion")
	}
	if behaviors.DesireToLeave {
		factors = append(factors, "expressed desire to leave")
	}

	level := RiskLow
	switch {
	case len(factors) >= 3:
		level = RiskHigh
	case len(factors) == 2:
		level = RiskModerate
	}
	return SundowningAssessment{Level: level, Factors: factors}
}

// AssessUTIIndicators weighs onset pattern as a first-class input: sudden
// onset of high confusion is the clinically significant signal for
// UTI-driven delirium, and scores materially higher than the same confusion
// level arrived at gradually.
func (m *Matcher) AssessUTIIndicators(confusionLevel float64, onset OnsetPattern) UTIAssessment {
	var indicators []string
	risk := RiskLow

	switch onset {
	case OnsetSudden:
		switch {
		case confusionLevel >= m.th.UTISuddenConfusion:
			risk = RiskHigh
			indicators = append(indicators, "sudden onset of high confusion")
		case confusionLevel >= m.th.UTIModerateConfusion:
			risk = RiskModerate
			indicators = append(indicators, "sudden onset of moderate confusion")
		}
	case OnsetGradual:
		if confusionLevel >= m.th.UTIGradualConfusion {
			risk = RiskModerate
			indicators = append(indicators, "gradual progression to high confusion")
		}
	}

	if risk == RiskLow {
		indicators = append(indicators, "confusion level within expected range")
	}
	return UTIAssessment{Risk: risk, Indicators: indicators}
}

// RepetitionScore is the mean pairwise similarity across the recent utterance
// window: near 1 when the same concern recurs verbatim, near 0 for varied
// conversation. Fewer than two utterances score 0.
func (m *Matcher) RepetitionScore(utterances []string) float64 {
	window := m.th.RepetitionWindow
	if window > 0 && len(utterances) > window {
		utterances = utterances[len(utterances)-window:]
	}
	if len(utterances) < 2 {
		return 0
	}

	var sum float64
	pairs := 0
	for i := 0; i < len(utterances); i++ {
		for j := i + 1; j < len(utterances); j++ {
			sum += Similarity(normalize(utterances[i]), normalize(utterances[j]))
			pairs++
		}
	}
	return clamp(sum/float64(pairs), 0, 1)
}

// excerpt returns a short window of the normalized text around the matched
// marker for caregiver display.
func excerpt(normalized, marker string) string {
	const radius = 30
	idx := strings.Index(normalized, marker)
	if idx < 0 {
		return truncate(normalized, 2*radius)
	}
	start := idx - radius
	if start < 0 {
		start = 0
	}
	end := idx + len(marker) + radius
	if end > len(normalized) {
		end = len(normalized)
	}
	return normalized[start:end]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
