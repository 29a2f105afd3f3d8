package frontend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mikey/llm-mood-engine/internal/core"
	"go.uber.org/zap"
)

// CLIFrontend analyzes one message per input line as a single session and
// prints every result followed by the session summary
type CLIFrontend struct {
	service    *core.MoodService
	logger     *zap.Logger
	out        io.Writer
	jsonOutput bool
	verbose    bool
	sessionID  string
	messages   int
}

// NewCLIFrontend creates a new CLI frontend writing to out
func NewCLIFrontend(service *core.MoodService, logger *zap.Logger, out io.Writer, jsonOutput bool, verbose bool) *CLIFrontend {
	return &CLIFrontend{
		service:    service,
		logger:     logger,
		out:        out,
		jsonOutput: jsonOutput,
		verbose:    verbose,
	}
}

// Start opens the session that collects every processed line
func (f *CLIFrontend) Start() error {
	session, err := f.service.StartSession(context.Background())
	if err != nil {
		return err
	}
	f.sessionID = session.ID
	return nil
}

// Stop ends the session and prints its summary
func (f *CLIFrontend) Stop() error {
	if f.sessionID == "" {
		return nil
	}
	summary, err := f.service.EndSession(context.Background(), f.sessionID)
	f.sessionID = ""
	if err != nil {
		return err
	}
	return f.printSummary(summary)
}

// SessionID returns the id of the open session
func (f *CLIFrontend) SessionID() string {
	return f.sessionID
}

// ProcessText analyzes a text and prints the result
func (f *CLIFrontend) ProcessText(ctx context.Context, sessionID string, text string) (*core.TextResult, error) {
	var result *core.TextResult
	var err error
	if sessionID == "" {
		result, err = f.service.AnalyzeText(ctx, text)
	} else {
		result, err = f.service.AddMessage(ctx, sessionID, text)
	}
	if err != nil {
		return nil, err
	}

	f.messages++
	return result, f.printResult(text, result)
}

// Run processes every non-blank line of in, then prints the summary. A line
// that cannot be analyzed is reported and skipped.
func (f *CLIFrontend) Run(ctx context.Context, in io.Reader) error {
	if err := f.Start(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, err := f.ProcessText(ctx, f.sessionID, line); err != nil {
			f.logger.Warn("Skipping line", zap.Int("line", f.messages+1), zap.Error(err))
			if !f.jsonOutput {
				fmt.Fprintf(f.out, "Error: %v\n", err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		_ = f.Stop()
		return fmt.Errorf("failed to read input: %w", err)
	}

	return f.Stop()
}

func (f *CLIFrontend) printResult(text string, result *core.TextResult) error {
	if f.jsonOutput {
		return f.writeJSON(struct {
			Type   string           `json:"type"`
			Text   string           `json:"text"`
			Result *core.TextResult `json:"result"`
		}{"message", text, result})
	}

	fmt.Fprintf(f.out, "\n=== Message %d ===\n", f.messages)
	fmt.Fprintf(f.out, "Text: %s\n", text)
	fmt.Fprintf(f.out, "Emotion: %s (confidence %.4f)\n", result.OverallEmotion, result.Confidence)
	fmt.Fprintf(f.out, "Sentiment: %s (%.2f)\n", result.Sentiment.Polarity, result.Sentiment.Strength)
	fmt.Fprintf(f.out, "VAD: valence=%.2f arousal=%.2f dominance=%.2f\n",
		result.VAD.Valence, result.VAD.Arousal, result.VAD.Dominance)
	fmt.Fprintf(f.out, "Coverage: %d/%d words (%.1f%%)\n",
		result.AnalyzedWordCount, result.WordCount, result.Coverage*100)
	fmt.Fprintf(f.out, "Inference calls: %d, new words: %d\n", result.InferenceCalls, result.NewWords)
	fmt.Fprintf(f.out, "Processing time: %v\n", result.ProcessingTime)

	if f.verbose {
		fmt.Fprintf(f.out, "\nWords:\n")
		for _, w := range result.Words {
			if !w.Found {
				fmt.Fprintf(f.out, "  %-20s %s\n", w.Normalized, w.Provenance)
				continue
			}
			dominant, confidence := w.Profile.Emotions.ArgMax()
			fmt.Fprintf(f.out, "  %-20s %-10s %-12s %.4f\n", w.Normalized, w.Provenance, dominant, confidence)
		}
	}
	return nil
}

func (f *CLIFrontend) printSummary(summary *core.SessionSummary) error {
	if f.jsonOutput {
		return f.writeJSON(struct {
			Type    string               `json:"type"`
			Summary *core.SessionSummary `json:"summary"`
		}{"summary", summary})
	}

	fmt.Fprintf(f.out, "\n=== Session Summary ===\n")
	fmt.Fprintf(f.out, "Messages: %d\n", summary.MessageCount)
	fmt.Fprintf(f.out, "Overall mood: %s (confidence %.4f)\n", summary.OverallMood, summary.MoodConfidence)
	fmt.Fprintf(f.out, "VAD: valence=%.2f arousal=%.2f dominance=%.2f\n",
		summary.VAD.Valence, summary.VAD.Arousal, summary.VAD.Dominance)
	fmt.Fprintf(f.out, "Trend: %s\n", summary.Trend)
	fmt.Fprintf(f.out, "Duration: %v\n", summary.Duration)
	return nil
}

func (f *CLIFrontend) writeJSON(v interface{}) error {
	enc := json.NewEncoder(f.out)
	return enc.Encode(v)
}
