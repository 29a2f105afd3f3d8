package openai

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/mikey/llm-mood-engine/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap/zaptest"
)

type fakeCompleter struct {
	reply string
	err   error
	last  openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.last = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		ID: "chatcmpl-test",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.reply}},
		},
	}, nil
}

const wonderfulReply = `{
  "emotions": {"joy": 0.7, "trust": 0.1, "anticipation": 0.1, "surprise": 0.1,
               "anger": 0, "fear": 0, "sadness": 0, "disgust": 0},
  "vad": {"valence": 0.9, "arousal": 0.6, "dominance": 0.6},
  "sentiment": {"polarity": "positive", "strength": 0.8}
}`

func TestInferProfile(t *testing.T) {
	logger := zaptest.NewLogger(t)
	fake := &fakeCompleter{reply: wonderfulReply}
	client := NewOpenAIClient(fake, "gpt-4o-mini", 300, 0, 1, true, logger, utils.NewTextProcessor(logger))

	p, err := client.InferProfile(context.Background(), "wonderful")
	if err != nil {
		t.Fatalf("InferProfile: %v", err)
	}
	if p.Dominant() != core.Joy {
		t.Errorf("dominant = %v, want joy", p.Dominant())
	}
	if p.Sentiment.Polarity != core.Positive {
		t.Errorf("polarity = %v, want positive", p.Sentiment.Polarity)
	}

	body, err := json.Marshal(fake.last)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	if _, ok := wire["temperature"]; !ok {
		t.Errorf("request omits temperature, server default would apply: %s", body)
	}
	if fake.last.Temperature > 1e-6 {
		t.Errorf("temperature = %v, want effectively 0", fake.last.Temperature)
	}
	if fake.last.ResponseFormat == nil || fake.last.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONSchema {
		t.Errorf("expected a JSON schema response format, got %+v", fake.last.ResponseFormat)
	}
	if len(fake.last.Messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(fake.last.Messages))
	}
}

func TestInferProfileJSONObjectMode(t *testing.T) {
	logger := zaptest.NewLogger(t)
	fake := &fakeCompleter{reply: "```json\n" + wonderfulReply + "\n```"}
	client := NewOpenAIClient(fake, "gpt-4o-mini", 300, 0, 1, false, logger, utils.NewTextProcessor(logger))

	if _, err := client.InferProfile(context.Background(), "wonderful"); err != nil {
		t.Fatalf("InferProfile: %v", err)
	}
	if fake.last.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Errorf("response format = %v, want json_object", fake.last.ResponseFormat.Type)
	}
}

func TestInferProfileErrors(t *testing.T) {
	logger := zaptest.NewLogger(t)
	tp := utils.NewTextProcessor(logger)

	apiErr := errors.New("503 service unavailable")
	client := NewOpenAIClient(&fakeCompleter{err: apiErr}, "m", 300, 0, 1, true, logger, tp)
	if _, err := client.InferProfile(context.Background(), "word"); !errors.Is(err, apiErr) {
		t.Errorf("expected wrapped API error, got %v", err)
	}

	client = NewOpenAIClient(&fakeCompleter{reply: "I cannot help with that"}, "m", 300, 0, 1, true, logger, tp)
	if _, err := client.InferProfile(context.Background(), "word"); err == nil {
		t.Error("expected an error for a non-JSON reply")
	}
}

func TestWireTemperature(t *testing.T) {
	tests := []struct {
		in   float32
		want float32
	}{
		{0, math.SmallestNonzeroFloat32},
		{0.3, 0.3},
		{1, 1},
	}
	for _, tt := range tests {
		if got := wireTemperature(tt.in); got != tt.want {
			t.Errorf("wireTemperature(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
