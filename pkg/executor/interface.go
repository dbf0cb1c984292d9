package executor

import "context"

// Executor defines the interface for executing external commands
// (ffmpeg, ffprobe, piper, espeak-ng).
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)
	ExecuteWithInput(ctx context.Context, input string, name string, args ...string) (string, error)
	Available(name string) bool
}
