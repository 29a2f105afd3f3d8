package core

import (
	"fmt"
	"math"
	"strings"
)

// ProfileSumTolerance is how far the category sum may drift from 1.0
const ProfileSumTolerance = 1e-3

// Confidence is the largest single category probability
func (p *EmotionalProfile) Confidence() float64 {
	_, score := p.Emotions.ArgMax()
	return score
}

// Dominant is the arg-max category of the profile
func (p *EmotionalProfile) Dominant() Emotion {
	e, _ := p.Emotions.ArgMax()
	return e
}

// Validate checks the profile invariants
func (p *EmotionalProfile) Validate() error {
	for _, e := range Emotions {
		v := p.Emotions[e]
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v out of range", ErrInvalidProfile, e, v)
		}
	}
	if sum := p.Emotions.Sum(); math.Abs(sum-1) > ProfileSumTolerance {
		return fmt.Errorf("%w: categories sum to %.4f", ErrInvalidProfile, sum)
	}
	for name, v := range map[string]float64{
		"valence":   p.VAD.Valence,
		"arousal":   p.VAD.Arousal,
		"dominance": p.VAD.Dominance,
		"strength":  p.Sentiment.Strength,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s=%v out of range", ErrInvalidProfile, name, v)
		}
	}
	switch p.Sentiment.Polarity {
	case Positive, Negative, NeutralPolarity:
	default:
		return fmt.Errorf("%w: polarity %q", ErrInvalidProfile, p.Sentiment.Polarity)
	}
	return nil
}

// Normalize clamps every value into [0,1], rescales the categories to sum to
// one and defaults an empty polarity to neutral. It fails when there is no
// category mass to rescale.
func (p *EmotionalProfile) Normalize() error {
	for i, v := range p.Emotions {
		p.Emotions[i] = clamp01(v)
	}
	sum := p.Emotions.Sum()
	if sum <= 0 {
		return fmt.Errorf("%w: empty emotion distribution", ErrInvalidProfile)
	}
	if math.Abs(sum-1) > 1e-9 {
		for i := range p.Emotions {
			p.Emotions[i] /= sum
		}
	}
	p.VAD.Valence = clamp01(p.VAD.Valence)
	p.VAD.Arousal = clamp01(p.VAD.Arousal)
	p.VAD.Dominance = clamp01(p.VAD.Dominance)
	p.Sentiment.Strength = clamp01(p.Sentiment.Strength)
	p.Sentiment.Polarity = Polarity(strings.ToLower(strings.TrimSpace(string(p.Sentiment.Polarity))))
	if p.Sentiment.Polarity == "" {
		p.Sentiment.Polarity = NeutralPolarity
	}
	return p.Validate()
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
