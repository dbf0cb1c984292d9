// Package usecase holds the orchestration logic of each service: validation,
// budget checks, cache lookups, provider calls and response assembly. It
// depends on the domain interfaces only, so adapters stay swappable in tests.
package usecase

import (
	"context"
	"fmt"

	"newsreel/internal/domain/entity"
	"newsreel/internal/domain/repository"
	"newsreel/internal/logger"
)

// SummaryResult is the outcome of one resilient summarize invocation.
type SummaryResult struct {
	Text     string
	Model    string
	FellBack bool
}

// ResilientSummarizer tries the primary provider once; on any failure it tries
// the fallback once. A configuration is never retried, so a deterministic
// failure costs at most two upstream calls.
type ResilientSummarizer struct {
	primary  repository.SummaryProvider
	fallback repository.SummaryProvider
	log      logger.Logger
}

func NewResilientSummarizer(primary, fallback repository.SummaryProvider, log logger.Logger) *ResilientSummarizer {
	return &ResilientSummarizer{primary: primary, fallback: fallback, log: log}
}

func (r *ResilientSummarizer) Summarize(ctx context.Context, prompt entity.SummaryPrompt) (SummaryResult, error) {
	text, err := r.primary.Summarize(ctx, prompt)
	if err == nil {
		return SummaryResult{Text: text, Model: r.primary.Model()}, nil
	}
	r.log.Warn(ctx, "Primary model %s failed, falling back to %s: %v", r.primary.Model(), r.fallback.Model(), err)

	text, ferr := r.fallback.Summarize(ctx, prompt)
	if ferr != nil {
		return SummaryResult{}, fmt.Errorf("primary (%v) and fallback failed: %w", err, ferr)
	}
	return SummaryResult{Text: text, Model: r.fallback.Model(), FellBack: true}, nil
}

// ResilientSpeech applies the same single-fallback policy to speech engines.
// It returns the name of the engine that produced the file.
type ResilientSpeech struct {
	primary  repository.SpeechEngine
	fallback repository.SpeechEngine
	log      logger.Logger
}

func NewResilientSpeech(primary, fallback repository.SpeechEngine, log logger.Logger) *ResilientSpeech {
	return &ResilientSpeech{primary: primary, fallback: fallback, log: log}
}

func (r *ResilientSpeech) Synthesize(ctx context.Context, text, voiceID, outPath string) (string, error) {
	err := r.primary.Synthesize(ctx, text, voiceID, outPath)
	if err == nil {
		return r.primary.Name(), nil
	}
	r.log.Warn(ctx, "Engine %s failed, falling back to %s: %v", r.primary.Name(), r.fallback.Name(), err)

	if ferr := r.fallback.Synthesize(ctx, text, voiceID, outPath); ferr != nil {
		return "", fmt.Errorf("%s (%v) and %s failed: %w", r.primary.Name(), err, r.fallback.Name(), ferr)
	}
	return r.fallback.Name(), nil
}

// Available reports whether at least one engine can synthesize.
func (r *ResilientSpeech) Available() bool {
	return r.primary.Available() || r.fallback.Available()
}
