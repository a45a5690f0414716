package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrSessionClosed is returned by every tracking operation once the session
// end time is set. A tracking call after close is a collaborator bug in
// event ordering, so it is surfaced hard rather than ignored.
var ErrSessionClosed = errors.New("session closed: tracking rejected")

// Session is the stateful core of the analysis engine: all tracked state for
// one call, from start to end. It is exclusively owned by one call's
// processing context and is not safe for concurrent use; independent calls
// run in independent sessions with nothing shared between them.
type Session struct {
	CallID    string
	StartTime time.Time

	scorer  *Scorer
	matcher *Matcher
	th      Thresholds
	log     *logrus.Logger

	endTime *time.Time

	interactions    []Interaction
	moodProgression []EmotionalSnapshot

	medicationMentions []PatternMatch
	painComplaints     []PatternMatch
	staffComplaints    []PatternMatch
	delusionMentions   []PatternMatch
	sundowningSignals  []PatternMatch
	hospitalRequests   int

	interruptions   int
	repetitions     map[string]*RepetitionEntry
	userUtterances  []string
	coherenceScores []float64

	latencySumMS   int64
	latencySamples int

	// support effectiveness: redirection topics observed to calm or fail
	successfulRedirections []string
	failedRedirections     []string
	pendingRedirect        string
	pendingRedirectBase    float64
}

// NewSession opens a session for one call. A nil lexicon or logger falls
// back to defaults; thresholds are taken as given so callers can inject
// tuned configuration.
func NewSession(callID string, startedAt time.Time, lex *Lexicon, weights SentimentWeights, th Thresholds, log *logrus.Logger) *Session {
	if lex == nil {
		lex = DefaultLexicon()
	}
	if log == nil {
		log = logrus.New()
	}
	return &Session{
		CallID:      callID,
		StartTime:   startedAt,
		scorer:      NewScorer(lex, weights),
		matcher:     NewMatcher(lex, th),
		th:          th,
		log:         log,
		repetitions: map[string]*RepetitionEntry{},
	}
}

func (s *Session) Closed() bool { return s.endTime != nil }

// End closes the session. No tracking operation may mutate state afterwards.
func (s *Session) End(at time.Time) error {
	if s.endTime != nil {
		return ErrSessionClosed
	}
	t := at
	s.endTime = &t
	return nil
}

// TrackUserUtterance records a caller turn: appends the interaction, scores
// sentiment into the mood progression, folds pattern matches into the
// session's category collections, and updates the repetition registry.
// Repeated caller input is meaningful data, so there is no duplicate
// suppression here. latencyMS <= 0 means latency was not supplied.
func (s *Session) TrackUserUtterance(text string, at time.Time, latencyMS int64) error {
	if s.Closed() {
		return ErrSessionClosed
	}

	snap := s.scorer.Analyze(text, at)
	coherence := Coherence(text, s.recentContext())

	s.moodProgression = append(s.moodProgression, snap)
	s.coherenceScores = append(s.coherenceScores, coherence)

	for _, match := range s.matcher.DetectPatterns(text, at) {
		s.foldPattern(match)
	}

	if fp := normalize(text); fp != "" {
		entry := s.repetitions[fp]
		if entry == nil {
			entry = &RepetitionEntry{}
			s.repetitions[fp] = entry
		}
		entry.Count++
		entry.Timestamps = append(entry.Timestamps, at)
		s.userUtterances = append(s.userUtterances, text)
	}

	if latencyMS > 0 {
		s.latencySumMS += latencyMS
		s.latencySamples++
	}

	s.settleRedirection(snap)

	s.interactions = append(s.interactions, Interaction{
		Type:      InteractionUserUtterance,
		Timestamp: at,
		Text:      text,
		Utterance: &UtterancePayload{LatencyMS: latencyMS, Sentiment: snap, Coherence: coherence},
	})
	return nil
}

// TrackAssistantResponse records a companion turn, first suppressing
// near-identical responses within the trailing duplicate window. Suppression
// exists because upstream retries can re-deliver the same response seconds
// apart; an identical phrase minutes later is a legitimate new turn.
// recorded reports whether the response was kept.
func (s *Session) TrackAssistantResponse(text string, at time.Time) (recorded bool, err error) {
	if s.Closed() {
		return false, ErrSessionClosed
	}

	if s.isDuplicateResponse(text, at) {
		s.log.WithFields(logrus.Fields{
			"call_id": s.CallID,
		}).Debug("duplicate assistant response suppressed")
		return false, nil
	}

	kind := ResponseDirectAnswer
	if firstMarker(normalize(text), s.scorer.lex.Redirection) != "" {
		kind = ResponseRedirection
		s.pendingRedirect = text
		s.pendingRedirectBase = s.lastOverall()
	}

	s.interactions = append(s.interactions, Interaction{
		Type:      InteractionAssistantResponse,
		Timestamp: at,
		Text:      text,
		Response:  &ResponsePayload{Kind: kind},
	})
	return true, nil
}

// TrackInterruption records one party talking over the other. Interruptions
// are a behavioral signal tracked independently of sentiment.
func (s *Session) TrackInterruption(at time.Time) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	s.interruptions++
	s.interactions = append(s.interactions, Interaction{
		Type:      InteractionInterruption,
		Timestamp: at,
	})
	return nil
}

// TrackFunctionCall records a tool invocation. The configured escalation
// function increments the hospital-request counter: the one place a
// structural action rather than text drives a clinical counter.
func (s *Session) TrackFunctionCall(name string, args map[string]any, at time.Time) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	if name == "" {
		return fmt.Errorf("function call at %s rejected: missing name", at.Format(time.RFC3339))
	}

	if name == s.th.EscalationFunction {
		s.hospitalRequests++
	}

	s.interactions = append(s.interactions, Interaction{
		Type:         InteractionFunctionCall,
		Timestamp:    at,
		FunctionCall: &FunctionCallPayload{Name: name, Args: args},
	})
	return nil
}

// Interactions returns the append-only audit log of the call.
func (s *Session) Interactions() []Interaction { return s.interactions }

// MoodProgression returns the per-user-turn emotional snapshots in order.
func (s *Session) MoodProgression() []EmotionalSnapshot { return s.moodProgression }

// Repetitions returns the repetition registry keyed by normalized
// fingerprint.
func (s *Session) Repetitions() map[string]*RepetitionEntry { return s.repetitions }

func (s *Session) foldPattern(match PatternMatch) {
	switch match.Category {
	case PatternMedication:
		s.medicationMentions = append(s.medicationMentions, match)
	case PatternPain:
		s.painComplaints = append(s.painComplaints, match)
	case PatternHospitalRequest:
		s.hospitalRequests++
	case PatternStaffComplaint:
		s.staffComplaints = append(s.staffComplaints, match)
	case PatternDelusion:
		s.delusionMentions = append(s.delusionMentions, match)
	case PatternSundowning:
		s.sundowningSignals = append(s.sundowningSignals, match)
	}
}

func (s *Session) isDuplicateResponse(text string, at time.Time) bool {
	cutoff := at.Add(-s.th.DuplicateWindow)
	norm := normalize(text)
	for i := len(s.interactions) - 1; i >= 0; i-- {
		in := s.interactions[i]
		if in.Timestamp.Before(cutoff) {
			return false
		}
		if in.Type != InteractionAssistantResponse {
			continue
		}
		if Similarity(norm, normalize(in.Text)) >= s.th.DuplicateSimilarity {
			return true
		}
	}
	return false
}

// recentContext is the trailing window of caller and companion turns used by
// the coherence assessor.
func (s *Session) recentContext() []string {
	var out []string
	for i := len(s.interactions) - 1; i >= 0 && len(out) < s.th.CoherenceWindow; i-- {
		in := s.interactions[i]
		if in.Type == InteractionUserUtterance || in.Type == InteractionAssistantResponse {
			out = append(out, in.Text)
		}
	}
	return out
}

func (s *Session) lastOverall() float64 {
	if len(s.moodProgression) == 0 {
		return 0
	}
	return s.moodProgression[len(s.moodProgression)-1].Overall
}

// settleRedirection resolves a pending redirection attempt against the first
// caller turn that follows it: mood improving past the configured margin
// counts as a success, anything else as a failure.
func (s *Session) settleRedirection(snap EmotionalSnapshot) {
	if s.pendingRedirect == "" {
		return
	}
	if snap.Overall >= s.pendingRedirectBase+s.th.RedirectionImproveBy {
		s.successfulRedirections = append(s.successfulRedirections, s.pendingRedirect)
	} else {
		s.failedRedirections = append(s.failedRedirections, s.pendingRedirect)
	}
	s.pendingRedirect = ""
	s.pendingRedirectBase = 0
}
