package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hearthline/hearthline/internal/analysis"
	"github.com/hearthline/hearthline/internal/services"
)

// analysisFile is the on-disk shape of the tunable analysis configuration:
// lexicon lists plus threshold overrides. Every field is optional; anything
// omitted keeps its built-in default.
type analysisFile struct {
	Lexicon    *analysis.Lexicon `yaml:"lexicon"`
	Weights    *weightsFile      `yaml:"weights"`
	Thresholds *thresholdsFile   `yaml:"thresholds"`
}

type weightsFile struct {
	Anxiety    *float64 `yaml:"anxiety"`
	Agitation  *float64 `yaml:"agitation"`
	Confusion  *float64 `yaml:"confusion"`
	Positivity *float64 `yaml:"positivity"`
}

type thresholdsFile struct {
	DuplicateSimilarity  *float64 `yaml:"duplicate_similarity"`
	DuplicateWindowSecs  *int     `yaml:"duplicate_window_seconds"`
	RepetitionWindow     *int     `yaml:"repetition_window"`
	HighRepetition       *float64 `yaml:"high_repetition"`
	CoherenceWindow      *int     `yaml:"coherence_window"`
	TrendMinPoints       *int     `yaml:"trend_min_points"`
	StableTrendBand      *float64 `yaml:"stable_trend_band"`
	SignificantShift     *float64 `yaml:"significant_shift"`
	RedirectionImproveBy *float64 `yaml:"redirection_improve_by"`

	SundowningStartHour *int `yaml:"sundowning_start_hour"`
	SundowningEndHour   *int `yaml:"sundowning_end_hour"`

	UTISuddenConfusion   *float64 `yaml:"uti_sudden_confusion"`
	UTIModerateConfusion *float64 `yaml:"uti_moderate_confusion"`
	UTIGradualConfusion  *float64 `yaml:"uti_gradual_confusion"`

	HospitalRequestCritical *int     `yaml:"hospital_request_critical"`
	PainIntensityCritical   *float64 `yaml:"pain_intensity_critical"`
	StaffComplaintElevated  *int     `yaml:"staff_complaint_elevated"`
	DecliningTrendElevated  *float64 `yaml:"declining_trend_elevated"`

	EscalationFunction *string `yaml:"escalation_function"`
}

// LoadAnalysisConfig reads the lexicon/threshold YAML at path and merges it
// over the built-in defaults. An empty path returns the defaults unchanged.
func LoadAnalysisConfig(path string) (services.EngineConfig, error) {
	cfg := services.DefaultEngineConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var file analysisFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, err
	}

	if file.Lexicon != nil {
		mergeLexicon(cfg.Lexicon, file.Lexicon)
	}
	if file.Weights != nil {
		setF(&cfg.Weights.Anxiety, file.Weights.Anxiety)
		setF(&cfg.Weights.Agitation, file.Weights.Agitation)
		setF(&cfg.Weights.Confusion, file.Weights.Confusion)
		setF(&cfg.Weights.Positivity, file.Weights.Positivity)
	}
	if t := file.Thresholds; t != nil {
		setF(&cfg.Thresholds.DuplicateSimilarity, t.DuplicateSimilarity)
		if t.DuplicateWindowSecs != nil {
			cfg.Thresholds.DuplicateWindow = time.Duration(*t.DuplicateWindowSecs) * time.Second
		}
		setI(&cfg.Thresholds.RepetitionWindow, t.RepetitionWindow)
		setF(&cfg.Thresholds.HighRepetition, t.HighRepetition)
		setI(&cfg.Thresholds.CoherenceWindow, t.CoherenceWindow)
		setI(&cfg.Thresholds.TrendMinPoints, t.TrendMinPoints)
		setF(&cfg.Thresholds.StableTrendBand, t.StableTrendBand)
		setF(&cfg.Thresholds.SignificantShift, t.SignificantShift)
		setF(&cfg.Thresholds.RedirectionImproveBy, t.RedirectionImproveBy)
		setI(&cfg.Thresholds.SundowningStartHour, t.SundowningStartHour)
		setI(&cfg.Thresholds.SundowningEndHour, t.SundowningEndHour)
		setF(&cfg.Thresholds.UTISuddenConfusion, t.UTISuddenConfusion)
		setF(&cfg.Thresholds.UTIModerateConfusion, t.UTIModerateConfusion)
		setF(&cfg.Thresholds.UTIGradualConfusion, t.UTIGradualConfusion)
		setI(&cfg.Thresholds.HospitalRequestCritical, t.HospitalRequestCritical)
		setF(&cfg.Thresholds.PainIntensityCritical, t.PainIntensityCritical)
		setI(&cfg.Thresholds.StaffComplaintElevated, t.StaffComplaintElevated)
		setF(&cfg.Thresholds.DecliningTrendElevated, t.DecliningTrendElevated)
		if t.EscalationFunction != nil {
			cfg.Thresholds.EscalationFunction = *t.EscalationFunction
		}
	}
	return cfg, nil
}

// mergeLexicon replaces only the lists the file provides.
func mergeLexicon(dst, src *analysis.Lexicon) {
	setList := func(d *[]string, s []string) {
		if len(s) > 0 {
			*d = s
		}
	}
	setList(&dst.Anxiety, src.Anxiety)
	setList(&dst.Agitation, src.Agitation)
	setList(&dst.Confusion, src.Confusion)
	setList(&dst.Positivity, src.Positivity)
	setList(&dst.Medication, src.Medication)
	setList(&dst.Pain, src.Pain)
	setList(&dst.PainIntense, src.PainIntense)
	setList(&dst.HospitalRequest, src.HospitalRequest)
	setList(&dst.StaffComplaint, src.StaffComplaint)
	setList(&dst.Delusion, src.Delusion)
	setList(&dst.Sundowning, src.Sundowning)
	setList(&dst.Redirection, src.Redirection)
}

func setF(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setI(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
