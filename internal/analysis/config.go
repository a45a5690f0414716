package analysis

import "time"

// Lexicon holds the marker word/phrase lists that drive sentiment scoring and
// clinical pattern matching. Lists are data, not code: they are loadable from
// YAML (see config.LoadAnalysisConfig) so clinical staff can tune categories
// without a redeploy.
type Lexicon struct {
	Anxiety    []string `yaml:"anxiety" json:"anxiety"`
	Agitation  []string `yaml:"agitation" json:"agitation"`
	Confusion  []string `yaml:"confusion" json:"confusion"`
	Positivity []string `yaml:"positivity" json:"positivity"`

	Medication      []string `yaml:"medication" json:"medication"`
	Pain            []string `yaml:"pain" json:"pain"`
	PainIntense     []string `yaml:"pain_intense" json:"pain_intense"`
	HospitalRequest []string `yaml:"hospital_request" json:"hospital_request"`
	StaffComplaint  []string `yaml:"staff_complaint" json:"staff_complaint"`
	Delusion        []string `yaml:"delusion" json:"delusion"`
	Sundowning      []string `yaml:"sundowning" json:"sundowning"`

	Redirection []string `yaml:"redirection" json:"redirection"`
}

// DefaultLexicon returns the built-in marker lists. These are the fallback
// when no external lexicon file is configured.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Anxiety: []string{
			"scared", "afraid", "worried", "anxious", "frightened", "nervous",
			"panic", "terrified", "help me", "something is wrong",
		},
		Agitation: []string{
			"angry", "mad", "furious", "upset", "annoyed", "leave me alone",
			"stop it", "go away", "hate", "fed up",
		},
		Confusion: []string{
			"confused", "don't understand", "where am i", "what day",
			"can't remember", "don't know where", "lost", "who are you",
			"what is happening",
		},
		Positivity: []string{
			"happy", "good", "wonderful", "lovely", "thank you", "nice",
			"glad", "enjoy", "love", "better",
		},
		Medication: []string{
			"medication", "medicine", "pills", "my meds", "prescription",
			"dose", "tablets", "forgot to take",
		},
		Pain: []string{
			"hurts", "pain", "aching", "sore", "ache", "painful", "agony",
			"my back hurts", "my head hurts",
		},
		PainIntense: []string{
			"unbearable", "terrible pain", "worst pain", "excruciating",
			"can't stand the pain", "agony",
		},
		HospitalRequest: []string{
			"go to the hospital", "need a doctor", "call an ambulance",
			"emergency room", "need the hospital", "take me to the hospital",
		},
		StaffComplaint: []string{
			"nurses are", "staff are", "they won't help", "nobody comes",
			"being mean", "they ignore me", "rude to me", "won't let me",
		},
		Delusion: []string{
			"they're stealing", "someone is watching", "people in my room",
			"they poisoned", "hiding my things", "out to get me",
			"talking about me",
		},
		Sundowning: []string{
			"want to go home", "have to leave", "need to get out",
			"where is the door", "they're coming for me", "it's getting dark",
		},
		Redirection: []string{
			"let's talk about", "tell me about", "do you remember",
			"how about we", "speaking of", "that reminds me",
		},
	}
}

// SentimentWeights are the per-axis multipliers used when folding the four
// axes into the signed overall score. Anxiety carries the highest weight.
type SentimentWeights struct {
	Anxiety    float64 `yaml:"anxiety" json:"anxiety"`
	Agitation  float64 `yaml:"agitation" json:"agitation"`
	Confusion  float64 `yaml:"confusion" json:"confusion"`
	Positivity float64 `yaml:"positivity" json:"positivity"`
}

// Thresholds carries every tunable cutoff in the engine. The sundowning and
// UTI values in particular are heuristics, not validated clinical constants,
// so they live here rather than inline.
type Thresholds struct {
	DuplicateSimilarity  float64       `yaml:"duplicate_similarity" json:"duplicate_similarity"`
	DuplicateWindow      time.Duration `yaml:"duplicate_window" json:"duplicate_window"`
	RepetitionWindow     int           `yaml:"repetition_window" json:"repetition_window"`
	HighRepetition       float64       `yaml:"high_repetition" json:"high_repetition"`
	CoherenceWindow      int           `yaml:"coherence_window" json:"coherence_window"`
	TrendMinPoints       int           `yaml:"trend_min_points" json:"trend_min_points"`
	StableTrendBand      float64       `yaml:"stable_trend_band" json:"stable_trend_band"`
	SignificantShift     float64       `yaml:"significant_shift" json:"significant_shift"`
	RedirectionImproveBy float64       `yaml:"redirection_improve_by" json:"redirection_improve_by"`

	SundowningStartHour int `yaml:"sundowning_start_hour" json:"sundowning_start_hour"`
	SundowningEndHour   int `yaml:"sundowning_end_hour" json:"sundowning_end_hour"`

	UTISuddenConfusion   float64 `yaml:"uti_sudden_confusion" json:"uti_sudden_confusion"`
	UTIModerateConfusion float64 `yaml:"uti_moderate_confusion" json:"uti_moderate_confusion"`
	UTIGradualConfusion  float64 `yaml:"uti_gradual_confusion" json:"uti_gradual_confusion"`

	HospitalRequestCritical int     `yaml:"hospital_request_critical" json:"hospital_request_critical"`
	PainIntensityCritical   float64 `yaml:"pain_intensity_critical" json:"pain_intensity_critical"`
	StaffComplaintElevated  int     `yaml:"staff_complaint_elevated" json:"staff_complaint_elevated"`
	DecliningTrendElevated  float64 `yaml:"declining_trend_elevated" json:"declining_trend_elevated"`

	EscalationFunction string `yaml:"escalation_function" json:"escalation_function"`
}

func DefaultWeights() SentimentWeights {
	return SentimentWeights{Anxiety: 1.5, Agitation: 1.2, Confusion: 1.0, Positivity: 1.0}
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		DuplicateSimilarity:  0.9,
		DuplicateWindow:      5 * time.Second,
		RepetitionWindow:     5,
		HighRepetition:       0.6,
		CoherenceWindow:      3,
		TrendMinPoints:       3,
		StableTrendBand:      0.05,
		SignificantShift:     0.3,
		RedirectionImproveBy: 0.05,

		SundowningStartHour: 15,
		SundowningEndHour:   21,

		UTISuddenConfusion:   0.6,
		UTIModerateConfusion: 0.3,
		UTIGradualConfusion:  0.8,

		HospitalRequestCritical: 2,
		PainIntensityCritical:   1.0,
		StaffComplaintElevated:  2,
		DecliningTrendElevated:  0.2,

		EscalationFunction: "transfer_to_nurse",
	}
}
