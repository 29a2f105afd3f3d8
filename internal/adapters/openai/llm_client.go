package openai

import (
	"context"
	"fmt"
	"math"

	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/mikey/llm-mood-engine/internal/prompt"
	"github.com/mikey/llm-mood-engine/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// chatCompleter is the part of *openai.Client the inference client needs
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient infers word profiles with the OpenAI chat completions API
type OpenAIClient struct {
	client           chatCompleter
	modelName        string
	maxTokens        int
	temperature      float32
	topP             float32
	structuredOutput bool
	logger           *zap.Logger
	textProcessor    *utils.TextProcessor
}

// NewOpenAIClient creates a new OpenAI inference client
func NewOpenAIClient(
	client chatCompleter,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	structuredOutput bool,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	return &OpenAIClient{
		client:           client,
		modelName:        modelName,
		maxTokens:        maxTokens,
		temperature:      temperature,
		topP:             topP,
		structuredOutput: structuredOutput,
		logger:           logger,
		textProcessor:    textProcessor,
	}
}

// wireTemperature keeps a zero temperature on the wire. The request field is
// omitempty, so a literal 0 would fall back to the server default.
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

// InferProfile asks the model for the emotional profile of a word
func (c *OpenAIClient) InferProfile(ctx context.Context, word string) (*core.EmotionalProfile, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.WordPrompt(word),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: wireTemperature(c.temperature),
		TopP:        c.topP,
	}

	if c.structuredOutput {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "emotional_profile",
				Schema: prompt.ProfileSchema(),
				Strict: true,
			},
		}
	} else {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	c.logger.Debug("OpenAI reply received",
		zap.String("word", word),
		zap.String("response_id", resp.ID),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return prompt.ParseResponse(c.textProcessor, resp.Choices[0].Message.Content, word)
}
