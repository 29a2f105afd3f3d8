package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText truncates text to at most maxRunes runes. The result is always valid UTF-8.
func (tp *TextProcessor) TruncateText(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	cut := 0
	for i := 0; i < maxRunes; i++ {
		_, size := utf8.DecodeRuneInString(text[cut:])
		cut += size
	}
	truncated := text[:cut]

	tp.logger.Debug("Text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_runes", maxRunes))

	return truncated
}

// SanitizeUTF8 drops invalid UTF-8 sequences
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	sanitized := strings.ToValidUTF8(text, "")

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(sanitized)))

	return sanitized
}

// ProcessText sanitizes and then truncates text in one operation
func (tp *TextProcessor) ProcessText(text string, maxRunes int) string {
	return tp.TruncateText(tp.SanitizeUTF8(text), maxRunes)
}

// StripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, from a model reply
func (tp *TextProcessor) StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		// drop the language tag line, e.g. ```json
		if tag := strings.TrimSpace(trimmed[:nl]); !strings.ContainsAny(tag, "{[") {
			trimmed = trimmed[nl+1:]
		}
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// ExtractJSONObject returns the text from the first '{' to the last '}'. The
// second result is false when there is no such span.
func (tp *TextProcessor) ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
