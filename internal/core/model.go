package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Emotion is one of the eight emotion categories. The zero value is Joy.
type Emotion int

const (
	Joy Emotion = iota
	Trust
	Anticipation
	Surprise
	Anger
	Fear
	Sadness
	Disgust

	// NumEmotions is the number of emotion categories
	NumEmotions = 8
)

// Neutral labels the fixed neutral results. It is never an index into EmotionScores.
const Neutral Emotion = -1

// Emotions lists the categories in their fixed order. Every arg-max over
// categories iterates this slice, so ties always resolve to the earliest entry.
var Emotions = [NumEmotions]Emotion{Joy, Trust, Anticipation, Surprise, Anger, Fear, Sadness, Disgust}

var emotionNames = [NumEmotions]string{"joy", "trust", "anticipation", "surprise", "anger", "fear", "sadness", "disgust"}

// String returns the lower-case category name
func (e Emotion) String() string {
	if e == Neutral {
		return "neutral"
	}
	if e < 0 || int(e) >= NumEmotions {
		return fmt.Sprintf("emotion(%d)", int(e))
	}
	return emotionNames[e]
}

// ParseEmotion parses a category name, case-insensitively
func ParseEmotion(name string) (Emotion, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "neutral" {
		return Neutral, nil
	}
	for i, n := range emotionNames {
		if n == name {
			return Emotion(i), nil
		}
	}
	return Neutral, fmt.Errorf("unknown emotion %q", name)
}

// MarshalJSON encodes the emotion as its name
func (e Emotion) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON decodes an emotion name
func (e *Emotion) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseEmotion(name)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// EmotionScores holds one value per category, indexed by Emotion.
type EmotionScores [NumEmotions]float64

// UniformScores returns 1/8 for every category
func UniformScores() EmotionScores {
	var s EmotionScores
	for i := range s {
		s[i] = 1.0 / NumEmotions
	}
	return s
}

// Get returns the score for a category
func (s EmotionScores) Get(e Emotion) float64 {
	return s[e]
}

// Sum returns the total over all categories
func (s EmotionScores) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

// ArgMax returns the highest scoring category. Ties go to the category that
// comes first in Emotions.
func (s EmotionScores) ArgMax() (Emotion, float64) {
	best := Emotions[0]
	bestScore := s[best]
	for _, e := range Emotions[1:] {
		if s[e] > bestScore {
			best = e
			bestScore = s[e]
		}
	}
	return best, bestScore
}

// Normalized divides every score by the total. A zero total yields the
// uniform distribution.
func (s EmotionScores) Normalized() EmotionScores {
	total := s.Sum()
	if total <= 0 {
		return UniformScores()
	}
	var out EmotionScores
	for i, v := range s {
		out[i] = v / total
	}
	return out
}

// MarshalJSON encodes the scores as an object keyed by category name, in category order
func (s EmotionScores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range Emotions {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", e.String())
		v, err := json.Marshal(s[e])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keyed by category name. Missing categories are zero.
func (s *EmotionScores) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out EmotionScores
	for name, v := range raw {
		e, err := ParseEmotion(name)
		if err != nil || e == Neutral {
			return fmt.Errorf("unknown emotion category %q", name)
		}
		out[e] = v
	}
	*s = out
	return nil
}

// VAD is a valence/arousal/dominance triple, each in [0,1]
type VAD struct {
	Valence   float64 `json:"valence"`
	Arousal   float64 `json:"arousal"`
	Dominance float64 `json:"dominance"`
}

// NeutralVAD is the midpoint on every axis
var NeutralVAD = VAD{Valence: 0.5, Arousal: 0.5, Dominance: 0.5}

// Polarity is the sentiment direction
type Polarity string

const (
	Positive        Polarity = "positive"
	Negative        Polarity = "negative"
	NeutralPolarity Polarity = "neutral"
)

// Sentiment is a polarity with a strength in [0,1]
type Sentiment struct {
	Polarity Polarity `json:"polarity"`
	Strength float64  `json:"strength"`
}

// EmotionalProfile is the emotional data attached to a single word
type EmotionalProfile struct {
	Word      string        `json:"word,omitempty"`
	Emotions  EmotionScores `json:"emotions"`
	VAD       VAD           `json:"vad"`
	Sentiment Sentiment     `json:"sentiment"`
	CreatedAt time.Time     `json:"created_at,omitempty"`
	UpdatedAt time.Time     `json:"updated_at,omitempty"`
}

// Provenance records which tier produced a word resolution
type Provenance string

const (
	FromCache     Provenance = "cache"
	FromStore     Provenance = "store"
	FromInference Provenance = "inference"
	NotFound      Provenance = "not-found"
)

// Token is one word of input text with its normalized form
type Token struct {
	Text       string `json:"text"`
	Normalized string `json:"normalized"`
}

// WordAnalysis is the resolution of a single token
type WordAnalysis struct {
	Token      string            `json:"token"`
	Normalized string            `json:"normalized"`
	Profile    *EmotionalProfile `json:"profile,omitempty"`
	Found      bool              `json:"found"`
	Provenance Provenance        `json:"provenance"`
}

// TextResult is the aggregated emotional signal of one block of text
type TextResult struct {
	ProcessingID      string         `json:"processing_id,omitempty"`
	OverallEmotion    Emotion        `json:"overall_emotion"`
	Confidence        float64        `json:"confidence"`
	Emotions          EmotionScores  `json:"emotions"`
	Words             []WordAnalysis `json:"words"`
	WordCount         int            `json:"word_count"`
	AnalyzedWordCount int            `json:"analyzed_word_count"`
	Coverage          float64        `json:"coverage"`
	VAD               VAD            `json:"vad"`
	Sentiment         Sentiment      `json:"sentiment"`
	AnalyzedAt        time.Time      `json:"analyzed_at"`
	ProcessingTime    time.Duration  `json:"processing_time"`
	InferenceCalls    int            `json:"inference_calls"`
	NewWords          int            `json:"new_words"`
}

// Trend is the direction of valence across a session
type Trend string

const (
	Improving Trend = "improving"
	Declining Trend = "declining"
	Stable    Trend = "stable"
)

// SessionSummary is the longitudinal mood of a finished session
type SessionSummary struct {
	Messages       []TextResult  `json:"messages"`
	OverallMood    Emotion       `json:"overall_mood"`
	MoodConfidence float64       `json:"mood_confidence"`
	Emotions       EmotionScores `json:"emotions"`
	VAD            VAD           `json:"vad"`
	Trend          Trend         `json:"trend"`
	MessageCount   int           `json:"message_count"`
	Duration       time.Duration `json:"duration"`
}

// SessionStatus is the lifecycle state of a session
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// Session is a multi-message conversation whose mood is summarised when it ends
type Session struct {
	ID        string          `json:"id"`
	Status    SessionStatus   `json:"status"`
	StartedAt time.Time       `json:"started_at"`
	EndedAt   time.Time       `json:"ended_at,omitempty"`
	Messages  []TextResult    `json:"messages"`
	Summary   *SessionSummary `json:"summary,omitempty"`
	Version   int64           `json:"version"`
}

// AnalysisRecord is the log entry written for every analyzed text
type AnalysisRecord struct {
	ProcessingID      string
	Text              string
	WordCount         int
	AnalyzedWordCount int
	Emotions          EmotionScores
	OverallEmotion    Emotion
	VAD               VAD
	Sentiment         Sentiment
	ProcessingTime    time.Duration
	InferenceCalls    int
	NewWords          int
	CreatedAt         time.Time
}
