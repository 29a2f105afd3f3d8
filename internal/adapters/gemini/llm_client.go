package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/mikey/llm-mood-engine/internal/prompt"
	"github.com/mikey/llm-mood-engine/internal/utils"
	"go.uber.org/zap"
)

// contentGenerator is the part of *genai.GenerativeModel the client needs
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient infers word profiles with Google Gemini
type GeminiClient struct {
	client        *genai.Client
	model         contentGenerator
	modelName     string
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeminiClient creates a new Gemini inference client. The model is
// configured for JSON output.
func NewGeminiClient(
	client *genai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *GeminiClient {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = genai.NewUserContent(genai.Text(prompt.SystemPrompt))

	return &GeminiClient{
		client:        client,
		model:         model,
		modelName:     modelName,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// InferProfile asks the model for the emotional profile of a word
func (c *GeminiClient) InferProfile(ctx context.Context, word string) (*core.EmotionalProfile, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt.WordPrompt(word)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	reply := responseText(resp)
	if reply == "" {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	c.logger.Debug("Gemini reply received",
		zap.String("word", word),
		zap.String("model", c.modelName))

	return prompt.ParseResponse(c.textProcessor, reply, word)
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
