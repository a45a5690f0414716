package analysis

// Coherence scores how well an utterance continues the recent conversational
// context, 0..1. It measures content-token overlap between the utterance and
// the context window; a low score flags a non-sequitur, which is a
// disorientation signal distinct from explicit confusion-lexicon hits.
//
// With no usable context (first turn, or all filler words) there is nothing
// to contradict, so the score is neutral 0.5.
func Coherence(utterance string, recent []string) float64 {
	utterTokens := contentTokens(utterance)
	if len(utterTokens) == 0 {
		return 0.5
	}

	ctx := map[string]struct{}{}
	for _, prev := range recent {
		for _, t := range contentTokens(prev) {
			ctx[t] = struct{}{}
		}
	}
	if len(ctx) == 0 {
		return 0.5
	}

	overlap := 0
	for _, t := range utterTokens {
		if _, ok := ctx[t]; ok {
			overlap++
		}
	}
	return clamp(float64(overlap)/float64(len(utterTokens)), 0, 1)
}
