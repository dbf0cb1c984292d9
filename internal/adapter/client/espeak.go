package client

import (
	"context"
	"fmt"

	"newsreel/pkg/executor"
)

// EspeakEngine is the fallback synthesis tier: lower quality, but it has no
// model files to load and practically never fails.
type EspeakEngine struct {
	exec   executor.Executor
	binary string
	voice  string
}

func NewEspeakEngine(exec executor.Executor, binary, voice string) *EspeakEngine {
	return &EspeakEngine{
		exec:   exec,
		binary: binary,
		voice:  voice,
	}
}

func (e *EspeakEngine) Name() string {
	return "espeak"
}

func (e *EspeakEngine) Available() bool {
	return e.exec.Available(e.binary)
}

// Synthesize writes a WAV file at outPath. The caller's voice ID is ignored;
// the fallback always speaks with its configured voice.
func (e *EspeakEngine) Synthesize(ctx context.Context, text, voiceID, outPath string) error {
	args := []string{
		"-v", e.voice,
		"-w", outPath,
		text,
	}
	if _, err := e.exec.Execute(ctx, e.binary, args...); err != nil {
		return fmt.Errorf("espeak synthesize: %w", err)
	}
	return nil
}
