package client

import (
	"context"
	"fmt"
	"path/filepath"

	"newsreel/pkg/executor"
)

// PiperEngine synthesizes speech with the piper binary, the primary engine.
// Voice IDs map to .onnx voice models inside the voices directory.
type PiperEngine struct {
	exec      executor.Executor
	binary    string
	voicesDir string
	defVoice  string
}

func NewPiperEngine(exec executor.Executor, binary, voicesDir, defaultVoice string) *PiperEngine {
	return &PiperEngine{
		exec:      exec,
		binary:    binary,
		voicesDir: voicesDir,
		defVoice:  defaultVoice,
	}
}

func (p *PiperEngine) Name() string {
	return "piper"
}

func (p *PiperEngine) Available() bool {
	return p.exec.Available(p.binary)
}

// Synthesize writes a WAV file at outPath. Piper reads the text on stdin.
func (p *PiperEngine) Synthesize(ctx context.Context, text, voiceID, outPath string) error {
	voice := voiceID
	if voice == "" || voice == "default" {
		voice = p.defVoice
	}
	model := filepath.Join(p.voicesDir, voice+".onnx")

	args := []string{
		"--model", model,
		"--output_file", outPath,
	}
	if _, err := p.exec.ExecuteWithInput(ctx, text, p.binary, args...); err != nil {
		return fmt.Errorf("piper synthesize: %w", err)
	}
	return nil
}
