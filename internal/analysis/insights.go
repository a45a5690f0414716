package analysis

import (
	"fmt"
	"time"
)

type TrendDirection string

const (
	TrendImproving     TrendDirection = "improving"
	TrendDeclining     TrendDirection = "declining"
	TrendStable        TrendDirection = "stable"
	TrendIndeterminate TrendDirection = "indeterminate"
)

// MoodTrend classifies the direction of the mood progression across a call.
// Strength is the magnitude of the early-to-late movement, 0..1.
type MoodTrend struct {
	Direction TrendDirection `json:"direction"`
	Strength  float64        `json:"strength"`
}

// EmotionalShift describes the movement between two consecutive snapshots.
type EmotionalShift struct {
	Magnitude   float64   `json:"magnitude"`
	Direction   string    `json:"direction"` // positive|negative|none
	Significant bool      `json:"significant"`
	At          time.Time `json:"at,omitempty"`
}

type RiskPriority string

const (
	RiskRoutine  RiskPriority = "routine"
	RiskElevated RiskPriority = "elevated"
	RiskCritical RiskPriority = "critical"
)

type RiskAssessment struct {
	Level   RiskPriority `json:"level"`
	Factors []string     `json:"factors"`
}

// CaregiverInsights is the higher-order, human-facing reduction of one call:
// trend, abrupt turn-to-turn shifts, prioritized risk, the alerts that explain
// it, and recommendations surfaced from what was already observed to work or
// fail.
type CaregiverInsights struct {
	CallID            string              `json:"call_id"`
	MoodTrend         MoodTrend           `json:"mood_trend"`
	SignificantShifts []EmotionalShift    `json:"significant_shifts,omitempty"`
	Risk              RiskAssessment      `json:"risk"`
	ImmediateAlerts   []string            `json:"immediate_alerts"`
	Recommendations   map[string][]string `json:"recommendations"`
}

// CalculateTrend classifies a mood series by comparing the mean of its early
// half against its late half, which resists single-turn noise better than a
// first-vs-last comparison. Series shorter than minPoints are reported
// indeterminate rather than guessed.
func CalculateTrend(series []EmotionalSnapshot, minPoints int, stableBand float64) MoodTrend {
	if len(series) < minPoints {
		return MoodTrend{Direction: TrendIndeterminate}
	}

	mid := len(series) / 2
	early := meanOverall(series[:mid])
	late := meanOverall(series[mid:])
	slope := late - early

	trend := MoodTrend{Strength: clamp(abs(slope), 0, 1)}
	switch {
	case slope > stableBand:
		trend.Direction = TrendImproving
	case slope < -stableBand:
		trend.Direction = TrendDeclining
	default:
		trend.Direction = TrendStable
	}
	return trend
}

// DetectEmotionalShift flags a move between consecutive snapshots whose
// magnitude exceeds the significance threshold; such shifts are worth
// surfacing even mid-trend.
func DetectEmotionalShift(previous, current EmotionalSnapshot, threshold float64) EmotionalShift {
	diff := current.Overall - previous.Overall
	shift := EmotionalShift{Magnitude: abs(diff), At: current.Timestamp}
	switch {
	case diff > 0:
		shift.Direction = "positive"
	case diff < 0:
		shift.Direction = "negative"
	default:
		shift.Direction = "none"
	}
	shift.Significant = shift.Magnitude > threshold
	return shift
}

// GenerateCaregiverInsights reduces the session into the caregiver-facing
// record. Risk factors and immediate alerts are built in a single pass from
// the same thresholds, so neither can drift from the other.
func (s *Session) GenerateCaregiverInsights() CaregiverInsights {
	trend := CalculateTrend(s.moodProgression, s.th.TrendMinPoints, s.th.StableTrendBand)

	var shifts []EmotionalShift
	for i := 1; i < len(s.moodProgression); i++ {
		shift := DetectEmotionalShift(s.moodProgression[i-1], s.moodProgression[i], s.th.SignificantShift)
		if shift.Significant {
			shifts = append(shifts, shift)
		}
	}

	var factors, alerts []string
	level := RiskRoutine

	raise := func(to RiskPriority) {
		if to == RiskCritical || (to == RiskElevated && level == RiskRoutine) {
			level = to
		}
	}
	flag := func(to RiskPriority, factor, alert string) {
		raise(to)
		factors = append(factors, factor)
		alerts = append(alerts, alert)
	}

	// Hard triggers first: either alone makes the call critical.
	if s.hospitalRequests >= s.th.HospitalRequestCritical {
		flag(RiskCritical,
			"repeated hospital requests",
			fmt.Sprintf("Requested hospital or emergency care %d times this call; clinical follow-up needed today.", s.hospitalRequests))
	}
	if maxIntensity(s.painComplaints) >= s.th.PainIntensityCritical {
		flag(RiskCritical,
			"maximum-intensity pain complaint",
			"Reported pain at the highest recorded intensity; assess pain management immediately.")
	}

	// Lesser but noteworthy combinations.
	if s.hospitalRequests > 0 && s.hospitalRequests < s.th.HospitalRequestCritical {
		flag(RiskElevated,
			"hospital request",
			fmt.Sprintf("Asked about going to the hospital %d time(s); check in on physical symptoms.", s.hospitalRequests))
	}
	if len(s.painComplaints) > 0 && maxIntensity(s.painComplaints) < s.th.PainIntensityCritical {
		flag(RiskElevated,
			"pain complaint",
			fmt.Sprintf("Mentioned pain %d time(s) during the call.", len(s.painComplaints)))
	}
	if len(s.staffComplaints) >= s.th.StaffComplaintElevated {
		flag(RiskElevated,
			"repeated staff complaints",
			fmt.Sprintf("Complained about staff %d times; consider reviewing recent care interactions.", len(s.staffComplaints)))
	}
	if trend.Direction == TrendDeclining && trend.Strength >= s.th.DecliningTrendElevated {
		flag(RiskElevated,
			"sustained declining mood",
			"Mood declined steadily over the call; a follow-up visit or call may help.")
	}

	recs := map[string][]string{}
	if len(s.successfulRedirections) > 0 {
		recs["effective_redirections"] = append([]string(nil), s.successfulRedirections...)
	}
	if len(s.failedRedirections) > 0 {
		recs["topics_to_avoid"] = append([]string(nil), s.failedRedirections...)
	}

	return CaregiverInsights{
		CallID:            s.CallID,
		MoodTrend:         trend,
		SignificantShifts: shifts,
		Risk:              RiskAssessment{Level: level, Factors: factors},
		ImmediateAlerts:   alerts,
		Recommendations:   recs,
	}
}

func meanOverall(series []EmotionalSnapshot) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, s := range series {
		sum += s.Overall
	}
	return sum / float64(len(series))
}

func maxIntensity(matches []PatternMatch) float64 {
	var max float64
	for _, m := range matches {
		if m.Intensity > max {
			max = m.Intensity
		}
	}
	return max
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
