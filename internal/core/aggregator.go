package core

// DefaultSignificanceThreshold is the minimum word confidence that counts
// towards a text's aggregate
const DefaultSignificanceThreshold = 0.25

// amplification returns the boost applied to a word's dominant category
func amplification(confidence float64) float64 {
	switch {
	case confidence >= 0.5:
		return 3.0
	case confidence >= 0.3:
		return 2.5
	default:
		return 2.0
	}
}

// NeutralTextResult is returned when no word carries enough signal. It is
// the one result whose OverallEmotion is not the arg-max of Emotions: the
// distribution is uniform and the label is Neutral rather than the tie-break
// winner.
func NeutralTextResult(words []WordAnalysis) TextResult {
	return TextResult{
		OverallEmotion: Neutral,
		Confidence:     1.0 / NumEmotions,
		Emotions:       UniformScores(),
		Words:          words,
		WordCount:      len(words),
		Coverage:       0,
		VAD:            NeutralVAD,
		Sentiment:      Sentiment{Polarity: NeutralPolarity},
	}
}

// TextAggregator folds per-word profiles into one TextResult
type TextAggregator struct {
	threshold        float64
	useWordDominance bool
}

// NewTextAggregator creates an aggregator. A non-positive threshold falls
// back to DefaultSignificanceThreshold. When useWordDominance is false the
// aggregate dominance stays at 0.5.
func NewTextAggregator(threshold float64, useWordDominance bool) *TextAggregator {
	if threshold <= 0 {
		threshold = DefaultSignificanceThreshold
	}
	return &TextAggregator{
		threshold:        threshold,
		useWordDominance: useWordDominance,
	}
}

// Aggregate computes the text-level emotion. Only found words whose
// confidence is strictly above the threshold contribute.
func (a *TextAggregator) Aggregate(words []WordAnalysis) TextResult {
	qualifying := make([]*EmotionalProfile, 0, len(words))
	for _, w := range words {
		if w.Found && w.Profile != nil && w.Profile.Confidence() > a.threshold {
			qualifying = append(qualifying, w.Profile)
		}
	}
	if len(qualifying) == 0 {
		return NeutralTextResult(words)
	}

	var totals EmotionScores
	var valence, arousal, dominance float64
	votes := make(map[Polarity]int, 3)
	strength := make(map[Polarity]float64, 3)

	for _, p := range qualifying {
		dominant, confidence := p.Emotions.ArgMax()
		amp := amplification(confidence)
		for _, e := range Emotions {
			if e == dominant {
				totals[e] += p.Emotions[e] * amp
			} else {
				totals[e] += p.Emotions[e]
			}
		}

		valence += p.VAD.Valence
		arousal += p.VAD.Arousal
		dominance += p.VAD.Dominance
		votes[p.Sentiment.Polarity]++
		strength[p.Sentiment.Polarity] += p.Sentiment.Strength
	}

	dist := totals.Normalized()
	overall, confidence := dist.ArgMax()

	n := float64(len(qualifying))
	vad := VAD{Valence: valence / n, Arousal: arousal / n, Dominance: 0.5}
	if a.useWordDominance {
		vad.Dominance = dominance / n
	}

	return TextResult{
		OverallEmotion:    overall,
		Confidence:        confidence,
		Emotions:          dist,
		Words:             words,
		WordCount:         len(words),
		AnalyzedWordCount: len(qualifying),
		Coverage:          n / float64(len(words)),
		VAD:               vad,
		Sentiment:         majoritySentiment(votes, strength),
	}
}

// majoritySentiment picks the most voted polarity; a tie for first place is
// neutral. Strength is the mean strength of the winning voters.
func majoritySentiment(votes map[Polarity]int, strength map[Polarity]float64) Sentiment {
	var winner Polarity
	best, tied := 0, false
	for _, pol := range []Polarity{Positive, Negative, NeutralPolarity} {
		switch c := votes[pol]; {
		case c > best:
			winner, best, tied = pol, c, false
		case c == best && c > 0:
			tied = true
		}
	}
	if best == 0 || tied {
		return Sentiment{Polarity: NeutralPolarity}
	}
	return Sentiment{Polarity: winner, Strength: strength[winner] / float64(best)}
}
