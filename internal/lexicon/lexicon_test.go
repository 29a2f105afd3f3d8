package lexicon

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/mikey/llm-mood-engine/internal/adapters/store"
	"github.com/mikey/llm-mood-engine/internal/core"
	"go.uber.org/zap/zaptest"
)

const sampleCSV = `word,joy,trust,anticipation,surprise,anger,fear,sadness,disgust,valence,arousal,dominance,polarity,strength
Happy,0.8,0.1,0.1,0,0,0,0,0,0.9,0.6,0.6,positive,0.8
gloomy,0,0,0,0,0,0.1,0.9,0,0.2,0.3,0.3,negative,0.6
nothing,0,0,0,0,0,0,0,0,0.5,0.5,0.5,neutral,0
broken,abc,0,0,0,0,0,0,0,0.5,0.5,0.5,neutral,0
scaled,2,2,0,0,0,0,0,0,,,,,
`

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"seed.csv", FormatCSV, false},
		{"/tmp/SEED.CSV", FormatCSV, false},
		{"seed.jsonl", FormatJSONL, false},
		{"seed.ndjson", FormatJSONL, false},
		{"seed.txt", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestImportCSV(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	im := NewImporter(st, zaptest.NewLogger(t), false)

	stats, err := im.Import(ctx, strings.NewReader(sampleCSV), FormatCSV)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Read != 5 || stats.Written != 3 || stats.Invalid != 2 {
		t.Errorf("stats = %+v, want 5 read, 3 written, 2 invalid", stats)
	}

	happy, err := st.GetByWord(ctx, "happy")
	if err != nil {
		t.Fatalf("GetByWord(happy): %v", err)
	}
	if happy.Dominant() != core.Joy || happy.Sentiment.Polarity != core.Positive {
		t.Errorf("unexpected happy profile: %+v", happy)
	}

	scaled, err := st.GetByWord(ctx, "scaled")
	if err != nil {
		t.Fatalf("GetByWord(scaled): %v", err)
	}
	if math.Abs(scaled.Emotions[core.Joy]-0.5) > 1e-9 {
		t.Errorf("scaled joy = %v, want 0.5 after normalization", scaled.Emotions[core.Joy])
	}
	if scaled.VAD != core.NeutralVAD || scaled.Sentiment.Polarity != core.NeutralPolarity {
		t.Errorf("missing optional columns should default to neutral, got %+v", scaled)
	}

	if _, err := st.GetByWord(ctx, "nothing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("an all-zero distribution must not be stored, got %v", err)
	}
}

func TestImportRespectsOverwrite(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	logger := zaptest.NewLogger(t)

	first := `{"word": "calm", "emotions": {"trust": 1}, "sentiment": {"polarity": "positive", "strength": 0.4}}`
	second := `{"word": "calm", "emotions": {"joy": 1}, "sentiment": {"polarity": "positive", "strength": 0.9}}`

	if _, err := NewImporter(st, logger, false).Import(ctx, strings.NewReader(first), FormatJSONL); err != nil {
		t.Fatalf("first import: %v", err)
	}

	stats, err := NewImporter(st, logger, false).Import(ctx, strings.NewReader(second), FormatJSONL)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if stats.Kept != 1 || stats.Written != 0 {
		t.Errorf("stats = %+v, want the existing row kept", stats)
	}
	calm, _ := st.GetByWord(ctx, "calm")
	if calm.Dominant() != core.Trust {
		t.Errorf("dominant = %v, want trust to survive", calm.Dominant())
	}

	stats, err = NewImporter(st, logger, true).Import(ctx, strings.NewReader(second), FormatJSONL)
	if err != nil {
		t.Fatalf("overwrite import: %v", err)
	}
	if stats.Written != 1 {
		t.Errorf("stats = %+v, want one overwrite", stats)
	}
	calm, _ = st.GetByWord(ctx, "calm")
	if calm.Dominant() != core.Joy {
		t.Errorf("dominant = %v, want joy after overwrite", calm.Dominant())
	}
	if calm.VAD != core.NeutralVAD {
		t.Errorf("vad = %+v, want neutral default", calm.VAD)
	}
}

func TestImportJSONLSkipsBadLines(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	im := NewImporter(st, zaptest.NewLogger(t), false)

	input := strings.Join([]string{
		`{"word": "angry", "emotions": {"anger": 0.9, "disgust": 0.1}}`,
		``,
		`not json`,
		`{"word": "odd", "emotions": {"wonder": 1}}`,
		`{"word": "", "emotions": {"joy": 1}}`,
	}, "\n")

	stats, err := im.Import(ctx, strings.NewReader(input), FormatJSONL)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Read != 4 || stats.Written != 1 || stats.Invalid != 3 {
		t.Errorf("stats = %+v, want 4 read, 1 written, 3 invalid", stats)
	}
}

func TestImportCSVMissingColumn(t *testing.T) {
	im := NewImporter(store.NewMemoryStore(), zaptest.NewLogger(t), false)
	_, err := im.Import(context.Background(), strings.NewReader("word,joy\nhappy,1\n"), FormatCSV)
	if err == nil || !strings.Contains(err.Error(), "trust") {
		t.Fatalf("expected a missing column error, got %v", err)
	}
}
