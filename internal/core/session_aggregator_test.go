package core

import (
	"math"
	"testing"
	"time"
)

func message(e Emotion, weight, valence float64) TextResult {
	p := profileFor(e, weight, valence, NeutralPolarity)
	return TextResult{
		OverallEmotion: e,
		Confidence:     weight,
		Emotions:       p.Emotions,
		VAD:            p.VAD,
	}
}

func withValences(valences ...float64) []TextResult {
	out := make([]TextResult, len(valences))
	for i, v := range valences {
		out[i] = message(Joy, 0.5, v)
	}
	return out
}

func TestValenceTrend(t *testing.T) {
	tests := []struct {
		name     string
		valences []float64
		want     Trend
	}{
		{"single", []float64{0.1}, Stable},
		{"three rising", []float64{0.1, 0.5, 0.9}, Stable},
		{"improving", []float64{0.3, 0.3, 0.3, 0.8, 0.8}, Improving},
		{"declining", []float64{0.8, 0.8, 0.3, 0.3}, Declining},
		{"within threshold", []float64{0.5, 0.5, 0.55, 0.55}, Stable},
		{"flat", []float64{0.4, 0.4, 0.4, 0.4, 0.4, 0.4}, Stable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValenceTrend(withValences(tt.valences...)); got != tt.want {
				t.Errorf("trend = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSummarizeWeightsRecentMessages(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	messages := []TextResult{
		message(Joy, 0.9, 0.9),
		message(Sadness, 0.9, 0.1),
	}

	summary := NewSessionAggregator().Summarize(messages, start, start.Add(90*time.Second))

	// weights 1 and 1.5, normalized to 0.4 and 0.6
	rest := 0.1 / (NumEmotions - 1)
	wantSad := 0.4*rest + 0.6*0.9
	if summary.OverallMood != Sadness {
		t.Errorf("mood = %v, want sadness", summary.OverallMood)
	}
	if math.Abs(summary.MoodConfidence-wantSad) > 1e-9 {
		t.Errorf("confidence = %v, want %v", summary.MoodConfidence, wantSad)
	}
	if math.Abs(summary.VAD.Valence-(0.4*0.9+0.6*0.1)) > 1e-9 {
		t.Errorf("valence = %v", summary.VAD.Valence)
	}
	if math.Abs(summary.Emotions.Sum()-1) > 1e-9 {
		t.Errorf("distribution sums to %v", summary.Emotions.Sum())
	}
	if summary.MessageCount != 2 || len(summary.Messages) != 2 {
		t.Errorf("message count = %d", summary.MessageCount)
	}
	if summary.Duration != 90*time.Second {
		t.Errorf("duration = %v, want 90s", summary.Duration)
	}
	if summary.Trend != Stable {
		t.Errorf("trend = %s, want stable below four messages", summary.Trend)
	}
}

func TestSummarizeClampsNegativeDuration(t *testing.T) {
	start := time.Now()
	summary := NewSessionAggregator().Summarize(withValences(0.5), start, start.Add(-time.Minute))
	if summary.Duration != 0 {
		t.Errorf("duration = %v, want 0", summary.Duration)
	}
}

func TestSummarizeEmptySession(t *testing.T) {
	start := time.Now()
	summary := NewSessionAggregator().Summarize(nil, start, start.Add(time.Hour))

	if summary.OverallMood != Neutral || summary.MoodConfidence != 1.0/NumEmotions {
		t.Errorf("mood = %v (%v), want neutral", summary.OverallMood, summary.MoodConfidence)
	}
	if summary.Emotions != UniformScores() || summary.VAD != NeutralVAD {
		t.Errorf("empty summary not neutral: %+v", summary)
	}
	if summary.Trend != Stable || summary.MessageCount != 0 || summary.Duration != 0 {
		t.Errorf("empty summary = %+v", summary)
	}
	if summary.Messages == nil {
		t.Error("messages should be an empty slice, not nil")
	}
}
