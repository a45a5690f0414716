package analysis

import "time"

type InteractionType string

const (
	InteractionUserUtterance     InteractionType = "user_utterance"
	InteractionAssistantResponse InteractionType = "assistant_response"
	InteractionInterruption      InteractionType = "interruption"
	InteractionFunctionCall      InteractionType = "function_call"
)

// Interaction is one immutable conversational event. Type is the
// discriminant; exactly one of the payload pointers matching the type is
// set, so consumers handle all four kinds without runtime probing.
type Interaction struct {
	Type      InteractionType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Text      string          `json:"text,omitempty"`

	Utterance    *UtterancePayload    `json:"utterance,omitempty"`
	Response     *ResponsePayload     `json:"response,omitempty"`
	FunctionCall *FunctionCallPayload `json:"function_call,omitempty"`
}

// UtterancePayload carries the per-turn derived fields for a caller turn.
type UtterancePayload struct {
	LatencyMS int64             `json:"latency_ms,omitempty"`
	Sentiment EmotionalSnapshot `json:"sentiment"`
	Coherence float64           `json:"coherence"`
}

type ResponseKind string

const (
	ResponseRedirection  ResponseKind = "redirection"
	ResponseDirectAnswer ResponseKind = "direct_answer"
)

type ResponsePayload struct {
	Kind ResponseKind `json:"kind"`
}

type FunctionCallPayload struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// RepetitionEntry is one repetition-registry record: how many times a
// normalized utterance fingerprint has occurred, and when. Entries accumulate
// monotonically within a session.
type RepetitionEntry struct {
	Count      int         `json:"count"`
	Timestamps []time.Time `json:"timestamps"`
}
