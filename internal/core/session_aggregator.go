package core

import "time"

const (
	// MinTrendMessages is the smallest session that gets a non-stable trend
	MinTrendMessages = 4
	// TrendThreshold is the valence shift between halves that counts as a trend
	TrendThreshold = 0.1
)

// NeutralSessionSummary is the summary of a session without messages
func NeutralSessionSummary() SessionSummary {
	return SessionSummary{
		Messages:       []TextResult{},
		OverallMood:    Neutral,
		MoodConfidence: 1.0 / NumEmotions,
		Emotions:       UniformScores(),
		VAD:            NeutralVAD,
		Trend:          Stable,
	}
}

// SessionAggregator computes the recency-weighted mood of a session
type SessionAggregator struct{}

// NewSessionAggregator creates a session aggregator
func NewSessionAggregator() *SessionAggregator {
	return &SessionAggregator{}
}

// Summarize folds the messages, oldest first, into a summary. Message i of n
// has weight 1 + i/n before normalization, so later messages count more.
func (a *SessionAggregator) Summarize(messages []TextResult, startedAt, endedAt time.Time) SessionSummary {
	if len(messages) == 0 {
		return NeutralSessionSummary()
	}

	n := len(messages)
	weights := make([]float64, n)
	total := 0.0
	for i := range weights {
		weights[i] = 1 + float64(i)/float64(n)
		total += weights[i]
	}

	var scores EmotionScores
	var vad VAD
	for i, m := range messages {
		w := weights[i] / total
		for _, e := range Emotions {
			scores[e] += w * m.Emotions[e]
		}
		vad.Valence += w * m.VAD.Valence
		vad.Arousal += w * m.VAD.Arousal
		vad.Dominance += w * m.VAD.Dominance
	}

	mood, confidence := scores.ArgMax()
	duration := endedAt.Sub(startedAt)
	if duration < 0 {
		duration = 0
	}

	return SessionSummary{
		Messages:       messages,
		OverallMood:    mood,
		MoodConfidence: confidence,
		Emotions:       scores,
		VAD:            vad,
		Trend:          ValenceTrend(messages),
		MessageCount:   n,
		Duration:       duration,
	}
}

// ValenceTrend compares the mean valence of the second half of the messages
// with the first half. The midpoint is n/2 rounded down.
func ValenceTrend(messages []TextResult) Trend {
	if len(messages) < MinTrendMessages {
		return Stable
	}
	mid := len(messages) / 2
	diff := meanValence(messages[mid:]) - meanValence(messages[:mid])
	switch {
	case diff > TrendThreshold:
		return Improving
	case diff < -TrendThreshold:
		return Declining
	default:
		return Stable
	}
}

func meanValence(messages []TextResult) float64 {
	sum := 0.0
	for _, m := range messages {
		sum += m.VAD.Valence
	}
	return sum / float64(len(messages))
}
