package analysis

import "time"

// CallMetadata identifies the call a summary describes. Duration is floored
// at one second so clock skew can never report a zero or negative call.
type CallMetadata struct {
	CallID          string    `json:"call_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds int64     `json:"duration_seconds"`
}

type ConversationMetrics struct {
	UserTurns            int   `json:"user_turns"`
	AssistantTurns       int   `json:"assistant_turns"`
	Interruptions        int   `json:"interruptions"`
	AvgResponseLatencyMS int64 `json:"avg_response_latency_ms"`
}

type ClinicalIndicators struct {
	MedicationMentions []PatternMatch `json:"medication_mentions"`
	PainComplaints     []PatternMatch `json:"pain_complaints"`
	StaffComplaints    []PatternMatch `json:"staff_complaints"`
	DelusionMentions   []PatternMatch `json:"delusion_mentions"`
	SundowningSignals  []PatternMatch `json:"sundowning_signals"`
	HospitalRequests   int            `json:"hospital_requests"`
	RepetitionScore    float64        `json:"repetition_score"`
	AvgCoherence       float64        `json:"avg_coherence"`
}

// Summary is the serializable per-call report handed to the persistence
// collaborator. It is derived once from session state and never mutated.
type Summary struct {
	CallMetadata        CallMetadata        `json:"call_metadata"`
	ConversationMetrics ConversationMetrics `json:"conversation_metrics"`
	ClinicalIndicators  ClinicalIndicators  `json:"clinical_indicators"`
	MoodProgression     []EmotionalSnapshot `json:"mood_progression"`
}

// GenerateSummary reduces all accumulated session state into the final
// structured report. Valid in either state; for a still-open session the
// current time stands in for the end time.
func (s *Session) GenerateSummary() Summary {
	end := time.Now().UTC()
	if s.endTime != nil {
		end = *s.endTime
	}

	duration := int64(end.Sub(s.StartTime).Seconds())
	if duration < 1 {
		duration = 1
	}

	userTurns, assistantTurns := 0, 0
	for _, in := range s.interactions {
		switch in.Type {
		case InteractionUserUtterance:
			userTurns++
		case InteractionAssistantResponse:
			assistantTurns++
		}
	}

	var avgLatency int64
	if s.latencySamples > 0 {
		avgLatency = s.latencySumMS / int64(s.latencySamples)
	}

	var avgCoherence float64
	if len(s.coherenceScores) > 0 {
		var sum float64
		for _, c := range s.coherenceScores {
			sum += c
		}
		avgCoherence = sum / float64(len(s.coherenceScores))
	}

	return Summary{
		CallMetadata: CallMetadata{
			CallID:          s.CallID,
			StartTime:       s.StartTime,
			EndTime:         end,
			DurationSeconds: duration,
		},
		ConversationMetrics: ConversationMetrics{
			UserTurns:            userTurns,
			AssistantTurns:       assistantTurns,
			Interruptions:        s.interruptions,
			AvgResponseLatencyMS: avgLatency,
		},
		ClinicalIndicators: ClinicalIndicators{
			MedicationMentions: s.medicationMentions,
			PainComplaints:     s.painComplaints,
			StaffComplaints:    s.staffComplaints,
			DelusionMentions:   s.delusionMentions,
			SundowningSignals:  s.sundowningSignals,
			HospitalRequests:   s.hospitalRequests,
			RepetitionScore:    s.matcher.RepetitionScore(s.userUtterances),
			AvgCoherence:       avgCoherence,
		},
		MoodProgression: s.moodProgression,
	}
}
