package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/mikey/llm-mood-engine/internal/prompt"
	"github.com/mikey/llm-mood-engine/internal/utils"
	"go.uber.org/zap"
)

const anthropicVersion = "bedrock-2023-05-31"

// modelInvoker is the part of *bedrockruntime.Client the client needs
type modelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient infers word profiles with a model hosted on Amazon Bedrock
type BedrockClient struct {
	client        modelInvoker
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewBedrockClient creates a new Bedrock inference client
func NewBedrockClient(
	client modelInvoker,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *BedrockClient {
	return &BedrockClient{
		client:        client,
		modelID:       modelID,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// InferProfile asks the model for the emotional profile of a word
func (c *BedrockClient) InferProfile(ctx context.Context, word string) (*core.EmotionalProfile, error) {
	payload, err := c.buildPayload(prompt.WordPrompt(word))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	reply, err := c.extractText(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Bedrock reply received",
		zap.String("word", word),
		zap.String("model", c.modelID))

	return prompt.ParseResponse(c.textProcessor, reply, word)
}

// buildPayload encodes the request body in the format of the model family
func (c *BedrockClient) buildPayload(userPrompt string) ([]byte, error) {
	switch {
	case c.isAnthropicMessagesModel():
		return json.Marshal(map[string]interface{}{
			"anthropic_version": anthropicVersion,
			"system":            prompt.SystemPrompt,
			"max_tokens":        c.maxTokens,
			"temperature":       c.temperature,
			"top_p":             c.topP,
			"messages": []map[string]interface{}{
				{"role": "user", "content": userPrompt},
			},
		})
	case c.isAnthropicModel():
		return json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\n%s\n\nAssistant:", prompt.SystemPrompt, userPrompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	case c.isAmazonTitanModel():
		return json.Marshal(map[string]interface{}{
			"inputText": prompt.SystemPrompt + "\n\n" + userPrompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      prompt.SystemPrompt + "\n\n" + userPrompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
}

// extractText pulls the generated text out of the response body
func (c *BedrockClient) extractText(body []byte) (string, error) {
	switch {
	case c.isAnthropicMessagesModel():
		var msgResp struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &msgResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		var sb strings.Builder
		for _, block := range msgResp.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		if sb.Len() == 0 {
			return "", fmt.Errorf("empty response from Claude model")
		}
		return sb.String(), nil
	case c.isAnthropicModel():
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	case c.isAmazonTitanModel():
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	default:
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		switch {
		case genericResp.Output != "":
			return genericResp.Output, nil
		case genericResp.Text != "":
			return genericResp.Text, nil
		case genericResp.Response != "":
			return genericResp.Response, nil
		default:
			return string(body), nil
		}
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *BedrockClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAnthropicMessagesModel checks if the model only speaks the messages API
func (c *BedrockClient) isAnthropicMessagesModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude-3") ||
		strings.HasPrefix(c.modelID, "anthropic.claude-sonnet") ||
		strings.HasPrefix(c.modelID, "anthropic.claude-opus") ||
		strings.HasPrefix(c.modelID, "anthropic.claude-haiku")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
