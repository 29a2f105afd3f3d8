package core

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxInferencePerText caps the inference calls made for one text
const DefaultMaxInferencePerText = 3

// SignificanceChecker decides which unknown words deserve an inference call
type SignificanceChecker interface {
	IsSignificant(word string) bool
}

// ResolverOptions tunes the WordResolver
type ResolverOptions struct {
	// MaxInferencePerText bounds both the number and the concurrency of
	// inference calls per ResolveTokens call
	MaxInferencePerText int
	// OverwriteOnConflict persists inferred profiles over existing store rows
	// instead of only filling gaps
	OverwriteOnConflict bool
	// InferenceTimeout bounds a single inference call; zero means no limit
	InferenceTimeout time.Duration
}

// ResolveStats counts what happened while resolving one text
type ResolveStats struct {
	CacheHits      int
	StoreHits      int
	InferenceCalls int
	Inferred       int
	NewWords       int
	Unresolved     int
}

type resolution struct {
	profile    *EmotionalProfile
	provenance Provenance
}

type inferred struct {
	profile  EmotionalProfile
	inserted bool
}

// WordResolver looks words up in the in-process cache, then the profile
// store, then the inference client, writing every hit back to the faster
// tiers. It exclusively owns its cache.
type WordResolver struct {
	cache        ProfileCache
	store        ProfileStore
	inference    InferenceClient
	significance SignificanceChecker
	logger       *zap.Logger
	opts         ResolverOptions
	inflight     singleflight.Group
}

// NewWordResolver creates a resolver. store and inference may be nil; a nil
// inference client means unknown words are never resolved.
func NewWordResolver(
	cache ProfileCache,
	store ProfileStore,
	inference InferenceClient,
	significance SignificanceChecker,
	logger *zap.Logger,
	opts ResolverOptions,
) *WordResolver {
	if opts.MaxInferencePerText <= 0 {
		opts.MaxInferencePerText = DefaultMaxInferencePerText
	}
	return &WordResolver{
		cache:        cache,
		store:        store,
		inference:    inference,
		significance: significance,
		logger:       logger,
		opts:         opts,
	}
}

// Resolve resolves a single word through every tier
func (r *WordResolver) Resolve(ctx context.Context, word string) (*EmotionalProfile, Provenance) {
	normalized := NormalizeWord(word)
	if normalized == "" {
		return nil, NotFound
	}
	analyses, _ := r.ResolveTokens(ctx, []Token{{Text: word, Normalized: normalized}})
	return analyses[0].Profile, analyses[0].Provenance
}

// ResolveTokens resolves every token of one text. Words missing from both the
// cache and the store are candidates for inference: significant words first,
// or the first unknown word when none is significant, at most
// MaxInferencePerText of them, resolved concurrently. Everything else stays
// not-found for this call and is retried next time.
func (r *WordResolver) ResolveTokens(ctx context.Context, tokens []Token) ([]WordAnalysis, ResolveStats) {
	var stats ResolveStats
	resolved := make(map[string]resolution, len(tokens))
	var unknown []string

	for _, tok := range tokens {
		if _, seen := resolved[tok.Normalized]; seen {
			continue
		}
		res := r.lookup(ctx, tok.Normalized)
		resolved[tok.Normalized] = res
		switch res.provenance {
		case FromCache:
			stats.CacheHits++
		case FromStore:
			stats.StoreHits++
		default:
			unknown = append(unknown, tok.Normalized)
		}
	}

	if len(unknown) > 0 && r.inference != nil {
		candidates := r.selectCandidates(unknown)
		stats.InferenceCalls = len(candidates)
		for word, res := range r.inferAll(ctx, candidates) {
			resolved[word] = resolution{profile: &res.profile, provenance: FromInference}
			stats.Inferred++
			if res.inserted {
				stats.NewWords++
			}
		}
	}

	analyses := make([]WordAnalysis, len(tokens))
	for i, tok := range tokens {
		res := resolved[tok.Normalized]
		analyses[i] = WordAnalysis{
			Token:      tok.Text,
			Normalized: tok.Normalized,
			Profile:    res.profile,
			Found:      res.profile != nil,
			Provenance: res.provenance,
		}
		if res.profile == nil {
			analyses[i].Provenance = NotFound
		}
	}
	for _, word := range unknown {
		if resolved[word].profile == nil {
			stats.Unresolved++
		}
	}

	return analyses, stats
}

// lookup consults the cache and the store. A store hit is copied into the cache.
func (r *WordResolver) lookup(ctx context.Context, word string) resolution {
	if p, ok := r.cache.Get(word); ok {
		r.logger.Debug("Cache hit", zap.String("word", word))
		return resolution{profile: &p, provenance: FromCache}
	}
	if r.store == nil {
		return resolution{provenance: NotFound}
	}

	p, err := r.store.GetByWord(ctx, word)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("Profile store lookup failed, treating word as unknown",
				zap.String("word", word),
				zap.Error(err))
		}
		return resolution{provenance: NotFound}
	}

	r.cache.Set(word, *p)
	r.logger.Debug("Store hit", zap.String("word", word))
	return resolution{profile: p, provenance: FromStore}
}

// selectCandidates picks the unknown words worth an inference call
func (r *WordResolver) selectCandidates(unknown []string) []string {
	candidates := make([]string, 0, r.opts.MaxInferencePerText)
	for _, word := range unknown {
		if r.significance == nil || r.significance.IsSignificant(word) {
			candidates = append(candidates, word)
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, unknown[0])
	}
	if len(candidates) > r.opts.MaxInferencePerText {
		candidates = candidates[:r.opts.MaxInferencePerText]
	}
	return candidates
}

// inferAll resolves the candidates concurrently and returns the successes
func (r *WordResolver) inferAll(ctx context.Context, words []string) map[string]inferred {
	results := make([]*inferred, len(words))

	var g errgroup.Group
	g.SetLimit(r.opts.MaxInferencePerText)
	for i, word := range words {
		i, word := i, word
		g.Go(func() error {
			res, err := r.infer(ctx, word)
			if err != nil {
				r.logger.Warn("Inference failed, word left unresolved",
					zap.String("word", word),
					zap.Error(err))
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]inferred, len(words))
	for i, res := range results {
		if res != nil {
			out[words[i]] = *res
		}
	}
	return out
}

// infer runs one inference call, shared by every concurrent caller asking for
// the same word, then writes the result to the cache and the store.
func (r *WordResolver) infer(ctx context.Context, word string) (*inferred, error) {
	v, err, shared := r.inflight.Do(word, func() (interface{}, error) {
		callCtx := ctx
		if r.opts.InferenceTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, r.opts.InferenceTimeout)
			defer cancel()
		}

		start := time.Now()
		p, err := r.inference.InferProfile(callCtx, word)
		if err != nil {
			return nil, err
		}
		p.Word = word
		if err := p.Normalize(); err != nil {
			return nil, err
		}
		r.cache.Set(word, *p)
		r.logger.Debug("Inferred profile",
			zap.String("word", word),
			zap.String("dominant", p.Dominant().String()),
			zap.Duration("latency", time.Since(start)))

		res := &inferred{profile: *p}
		if r.store != nil {
			inserted, err := r.store.UpsertWord(ctx, p, r.opts.OverwriteOnConflict)
			if err != nil {
				r.logger.Warn("Failed to persist inferred profile",
					zap.String("word", word),
					zap.Error(err))
			}
			res.inserted = inserted
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.logger.Debug("Shared in-flight inference", zap.String("word", word))
	}
	res := *v.(*inferred)
	return &res, nil
}

// CacheSize returns the number of cached profiles
func (r *WordResolver) CacheSize() int {
	return r.cache.Len()
}
