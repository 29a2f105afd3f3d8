package core

import (
	"math"
	"testing"
)

func analyses(words ...interface{}) []WordAnalysis {
	var out []WordAnalysis
	for _, w := range words {
		switch v := w.(type) {
		case string:
			out = append(out, WordAnalysis{Token: v, Normalized: v, Provenance: NotFound})
		case EmotionalProfile:
			p := v
			out = append(out, WordAnalysis{Token: p.Word, Normalized: p.Word, Profile: &p, Found: true, Provenance: FromStore})
		}
	}
	return out
}

func named(word string, p EmotionalProfile) EmotionalProfile {
	p.Word = word
	return p
}

func TestAggregateExampleSentence(t *testing.T) {
	words := analyses(
		"i", "feel",
		named("wonderful", profileFor(Joy, 0.8, 0.9, Positive)),
		"and",
		named("amazing", profileFor(Joy, 0.75, 0.85, Positive)),
		"today",
	)
	res := NewTextAggregator(0, false).Aggregate(words)

	if res.OverallEmotion != Joy {
		t.Errorf("emotion = %v, want joy", res.OverallEmotion)
	}
	if res.Confidence <= 0.5 {
		t.Errorf("confidence = %v, want > 0.5", res.Confidence)
	}
	if res.Sentiment.Polarity != Positive {
		t.Errorf("polarity = %v, want positive", res.Sentiment.Polarity)
	}
	if res.WordCount != 6 || res.AnalyzedWordCount != 2 {
		t.Errorf("counts = %d/%d, want 2/6", res.AnalyzedWordCount, res.WordCount)
	}
	if math.Abs(res.Coverage-2.0/6.0) > 1e-9 {
		t.Errorf("coverage = %v", res.Coverage)
	}
	if math.Abs(res.Emotions.Sum()-1) > 1e-9 {
		t.Errorf("distribution sums to %v", res.Emotions.Sum())
	}
	if math.Abs(res.VAD.Valence-0.875) > 1e-9 || res.VAD.Dominance != 0.5 {
		t.Errorf("vad = %+v", res.VAD)
	}
}

func TestAggregateNeutralWhenNothingQualifies(t *testing.T) {
	flat := named("meh", profileFor(Joy, 0.25, 0.5, NeutralPolarity))
	words := analyses("unknown", flat)

	res := NewTextAggregator(0.25, false).Aggregate(words)
	if res.OverallEmotion != Neutral {
		t.Errorf("emotion = %v, want neutral", res.OverallEmotion)
	}
	if res.Confidence != 1.0/NumEmotions || res.Emotions != UniformScores() {
		t.Errorf("neutral result not uniform: %v %v", res.Confidence, res.Emotions)
	}
	if res.VAD != NeutralVAD || res.Sentiment.Polarity != NeutralPolarity || res.Coverage != 0 {
		t.Errorf("neutral result = %+v", res)
	}
	if res.WordCount != 2 {
		t.Errorf("word count = %d, want 2", res.WordCount)
	}

	empty := NewTextAggregator(0, false).Aggregate(nil)
	if empty.OverallEmotion != Neutral || empty.WordCount != 0 {
		t.Errorf("empty input = %+v", empty)
	}
}

func TestAggregateAmplification(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		amp    float64
	}{
		{"strong", 0.6, 3.0},
		{"medium", 0.4, 2.5},
		{"weak", 0.28, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := named("w", profileFor(Fear, tt.weight, 0.2, Negative))
			res := NewTextAggregator(0, false).Aggregate(analyses(p))

			rest := (1 - tt.weight) / (NumEmotions - 1)
			total := tt.weight*tt.amp + rest*(NumEmotions-1)
			want := tt.weight * tt.amp / total
			if math.Abs(res.Emotions[Fear]-want) > 1e-9 {
				t.Errorf("fear = %v, want %v", res.Emotions[Fear], want)
			}
			if res.OverallEmotion != Fear || res.Confidence != res.Emotions[Fear] {
				t.Errorf("overall = %v (%v)", res.OverallEmotion, res.Confidence)
			}
		})
	}
}

func TestAggregateArgMaxMatchesDistribution(t *testing.T) {
	words := analyses(
		named("rage", profileFor(Anger, 0.7, 0.1, Negative)),
		named("hope", profileFor(Anticipation, 0.5, 0.7, Positive)),
		named("dread", profileFor(Fear, 0.45, 0.2, Negative)),
	)
	res := NewTextAggregator(0, false).Aggregate(words)

	want, score := res.Emotions.ArgMax()
	if res.OverallEmotion != want || res.Confidence != score {
		t.Errorf("overall = %v (%v), distribution arg-max = %v (%v)", res.OverallEmotion, res.Confidence, want, score)
	}

	neutral := NewTextAggregator(0, false).Aggregate(analyses("unknown"))
	if _, score := neutral.Emotions.ArgMax(); neutral.OverallEmotion != Neutral || neutral.Confidence != score {
		t.Errorf("neutral result = %v (%v), want the Neutral label with the uniform score %v",
			neutral.OverallEmotion, neutral.Confidence, score)
	}
	if res.Sentiment.Polarity != Negative {
		t.Errorf("polarity = %v, want negative majority", res.Sentiment.Polarity)
	}
	if math.Abs(res.Sentiment.Strength-0.7) > 1e-9 {
		t.Errorf("strength = %v, want mean of the negative voters", res.Sentiment.Strength)
	}
}

func TestAggregateSentimentTieIsNeutral(t *testing.T) {
	words := analyses(
		named("love", profileFor(Joy, 0.7, 0.9, Positive)),
		named("hate", profileFor(Anger, 0.7, 0.1, Negative)),
	)
	res := NewTextAggregator(0, false).Aggregate(words)
	if res.Sentiment.Polarity != NeutralPolarity || res.Sentiment.Strength != 0 {
		t.Errorf("sentiment = %+v, want neutral on a tie", res.Sentiment)
	}
	if res.OverallEmotion != Joy {
		t.Errorf("emotion = %v, want joy on an equal-weight tie", res.OverallEmotion)
	}
}

func TestAggregateWordDominance(t *testing.T) {
	p := named("bold", profileFor(Trust, 0.6, 0.8, Positive))
	p.VAD.Dominance = 0.9

	if res := NewTextAggregator(0, false).Aggregate(analyses(p)); res.VAD.Dominance != 0.5 {
		t.Errorf("dominance = %v, want fixed 0.5", res.VAD.Dominance)
	}
	if res := NewTextAggregator(0, true).Aggregate(analyses(p)); res.VAD.Dominance != 0.9 {
		t.Errorf("dominance = %v, want word mean 0.9", res.VAD.Dominance)
	}
}
