// Package prompt holds the word-profile prompt shared by every inference
// provider and the parser for the model's reply.
package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/mikey/llm-mood-engine/internal/utils"
)

// SystemPrompt frames every request
const SystemPrompt = "You are a lexical emotion annotator. Respond only with JSON."

const wordPromptFormat = `Give the emotional profile of the English word %q.
Respond with a JSON object containing:
- emotions: object with the keys joy, trust, anticipation, surprise, anger, fear, sadness, disgust.
  Each value is a probability between 0 and 1 and the eight values sum to 1.
- vad: object with valence, arousal and dominance, each between 0 and 1.
- sentiment: object with polarity ("positive", "negative" or "neutral") and strength between 0 and 1.

Respond only with the JSON object and nothing else.`

// WordPrompt returns the user prompt for a single word
func WordPrompt(word string) string {
	return fmt.Sprintf(wordPromptFormat, word)
}

// EmotionsResponse is the category block of a reply
type EmotionsResponse struct {
	Joy          float64 `json:"joy" jsonschema:"required,minimum=0,maximum=1"`
	Trust        float64 `json:"trust" jsonschema:"required,minimum=0,maximum=1"`
	Anticipation float64 `json:"anticipation" jsonschema:"required,minimum=0,maximum=1"`
	Surprise     float64 `json:"surprise" jsonschema:"required,minimum=0,maximum=1"`
	Anger        float64 `json:"anger" jsonschema:"required,minimum=0,maximum=1"`
	Fear         float64 `json:"fear" jsonschema:"required,minimum=0,maximum=1"`
	Sadness      float64 `json:"sadness" jsonschema:"required,minimum=0,maximum=1"`
	Disgust      float64 `json:"disgust" jsonschema:"required,minimum=0,maximum=1"`
}

// VADResponse is the valence/arousal/dominance block of a reply
type VADResponse struct {
	Valence   float64 `json:"valence" jsonschema:"required,minimum=0,maximum=1"`
	Arousal   float64 `json:"arousal" jsonschema:"required,minimum=0,maximum=1"`
	Dominance float64 `json:"dominance" jsonschema:"required,minimum=0,maximum=1"`
}

// SentimentResponse is the sentiment block of a reply
type SentimentResponse struct {
	Polarity string  `json:"polarity" jsonschema:"required,enum=positive,enum=negative,enum=neutral"`
	Strength float64 `json:"strength" jsonschema:"required,minimum=0,maximum=1"`
}

// ProfileResponse is the JSON object the model is asked to produce
type ProfileResponse struct {
	Emotions  *EmotionsResponse  `json:"emotions" jsonschema:"required"`
	VAD       *VADResponse       `json:"vad" jsonschema:"required"`
	Sentiment *SentimentResponse `json:"sentiment" jsonschema:"required"`
}

// ProfileSchema is the JSON schema of ProfileResponse for structured output
func ProfileSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(&ProfileResponse{})
	schema.Version = ""
	return schema
}

// ParseResponse turns a model reply into a validated profile. Code fences are
// stripped and, failing a direct parse, the outermost JSON object is tried.
func ParseResponse(tp *utils.TextProcessor, reply string, word string) (*core.EmotionalProfile, error) {
	text := tp.StripCodeFences(reply)

	var resp ProfileResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		obj, ok := tp.ExtractJSONObject(text)
		if !ok {
			return nil, fmt.Errorf("failed to extract JSON from LLM response: %w", err)
		}
		if err := json.Unmarshal([]byte(obj), &resp); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}
	if resp.Emotions == nil || resp.VAD == nil || resp.Sentiment == nil {
		return nil, fmt.Errorf("%w: response is missing emotions, vad or sentiment", core.ErrInvalidProfile)
	}

	p := &core.EmotionalProfile{
		Word: word,
		VAD: core.VAD{
			Valence:   resp.VAD.Valence,
			Arousal:   resp.VAD.Arousal,
			Dominance: resp.VAD.Dominance,
		},
		Sentiment: core.Sentiment{
			Polarity: core.Polarity(resp.Sentiment.Polarity),
			Strength: resp.Sentiment.Strength,
		},
	}
	p.Emotions[core.Joy] = resp.Emotions.Joy
	p.Emotions[core.Trust] = resp.Emotions.Trust
	p.Emotions[core.Anticipation] = resp.Emotions.Anticipation
	p.Emotions[core.Surprise] = resp.Emotions.Surprise
	p.Emotions[core.Anger] = resp.Emotions.Anger
	p.Emotions[core.Fear] = resp.Emotions.Fear
	p.Emotions[core.Sadness] = resp.Emotions.Sadness
	p.Emotions[core.Disgust] = resp.Emotions.Disgust

	if err := p.Normalize(); err != nil {
		return nil, err
	}
	return p, nil
}
