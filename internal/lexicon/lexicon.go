// Package lexicon bulk loads word profiles into a profile store.
package lexicon

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mikey/llm-mood-engine/internal/core"
	"go.uber.org/zap"
)

// Format is the encoding of a lexicon file
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
)

// FormatFromPath guesses the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("cannot infer lexicon format from %q", path)
	}
}

// Stats counts the outcome of an import
type Stats struct {
	Read    int
	Written int
	Kept    int
	Invalid int
}

// Importer writes lexicon entries to a profile store
type Importer struct {
	store     core.ProfileStore
	logger    *zap.Logger
	overwrite bool
}

// NewImporter creates an importer. With overwrite false, words already in
// the store keep their existing profile.
func NewImporter(store core.ProfileStore, logger *zap.Logger, overwrite bool) *Importer {
	return &Importer{store: store, logger: logger, overwrite: overwrite}
}

// Import reads every entry of r and upserts it. Malformed entries are logged
// and counted; a store error aborts the import.
func (im *Importer) Import(ctx context.Context, r io.Reader, format Format) (Stats, error) {
	var stats Stats
	emit := func(line int, p *core.EmotionalProfile, err error) error {
		stats.Read++
		if err == nil {
			err = prepare(p)
		}
		if err != nil {
			stats.Invalid++
			im.logger.Warn("Skipping invalid lexicon entry", zap.Int("line", line), zap.Error(err))
			return nil
		}
		written, err := im.store.UpsertWord(ctx, p, im.overwrite)
		if err != nil {
			return fmt.Errorf("line %d: failed to store %q: %w", line, p.Word, err)
		}
		if written {
			stats.Written++
		} else {
			stats.Kept++
		}
		return nil
	}

	var err error
	switch format {
	case FormatCSV:
		err = readCSV(r, emit)
	case FormatJSONL:
		err = readJSONL(r, emit)
	default:
		err = fmt.Errorf("unsupported lexicon format: %s", format)
	}
	return stats, err
}

// prepare normalizes the word and the profile values
func prepare(p *core.EmotionalProfile) error {
	p.Word = core.NormalizeWord(p.Word)
	if p.Word == "" {
		return errors.New("empty word")
	}
	return p.Normalize()
}

type emitFunc func(line int, p *core.EmotionalProfile, err error) error

var requiredColumns = []string{"word", "joy", "trust", "anticipation", "surprise", "anger", "fear", "sadness", "disgust"}

// readCSV reads a headed CSV file. The word and the eight category columns
// are required; valence, arousal, dominance, polarity and strength are
// optional and default to neutral.
func readCSV(r io.Reader, emit emitFunc) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return fmt.Errorf("CSV header is missing column %q", name)
		}
	}

	line := 1
	for {
		record, err := cr.Read()
		line++
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				if err := emit(line, nil, err); err != nil {
					return err
				}
				continue
			}
			return err
		}

		p, perr := profileFromRecord(record, cols)
		if err := emit(line, p, perr); err != nil {
			return err
		}
	}
}

func profileFromRecord(record []string, cols map[string]int) (*core.EmotionalProfile, error) {
	field := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return "", false
		}
		v := strings.TrimSpace(record[i])
		return v, v != ""
	}
	number := func(name string, def float64) (float64, error) {
		v, ok := field(name)
		if !ok {
			return def, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s: %w", name, err)
		}
		return f, nil
	}

	word, _ := field("word")
	p := &core.EmotionalProfile{Word: word}
	for _, e := range core.Emotions {
		v, err := number(e.String(), 0)
		if err != nil {
			return nil, err
		}
		p.Emotions[e] = v
	}

	var err error
	if p.VAD.Valence, err = number("valence", 0.5); err != nil {
		return nil, err
	}
	if p.VAD.Arousal, err = number("arousal", 0.5); err != nil {
		return nil, err
	}
	if p.VAD.Dominance, err = number("dominance", 0.5); err != nil {
		return nil, err
	}
	if p.Sentiment.Strength, err = number("strength", 0); err != nil {
		return nil, err
	}
	if pol, ok := field("polarity"); ok {
		p.Sentiment.Polarity = core.Polarity(pol)
	}
	return p, nil
}

// readJSONL reads one JSON encoded profile per line; blank lines are skipped.
// A missing vad object defaults to neutral.
func readJSONL(r io.Reader, emit emitFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		p := core.EmotionalProfile{VAD: core.NeutralVAD}
		if err := json.Unmarshal([]byte(text), &p); err != nil {
			if err := emit(line, nil, err); err != nil {
				return err
			}
			continue
		}
		if err := emit(line, &p, nil); err != nil {
			return err
		}
	}
	return scanner.Err()
}
