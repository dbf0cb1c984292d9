package usecase

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsreel/internal/adapter/store"
	"newsreel/internal/domain/entity"
	"newsreel/internal/logger"
)

type fakeEngine struct {
	name  string
	fail  bool
	calls atomic.Int64
}

func (f *fakeEngine) Synthesize(ctx context.Context, text, voiceID, outPath string) error {
	f.calls.Add(1)
	if f.fail || strings.Contains(text, "unspeakable") {
		return errors.New("synthesis crashed")
	}
	return writeStub(outPath, "RIFF stub "+text)
}

func (f *fakeEngine) Name() string    { return f.name }
func (f *fakeEngine) Available() bool { return !f.fail }

type fakeAudio struct {
	duration float64
}

func (f *fakeAudio) Process(ctx context.Context, inPath, outPath string, opts entity.AudioOptions) error {
	return copyFile(inPath, outPath)
}

func (f *fakeAudio) Duration(ctx context.Context, path string) (float64, error) {
	return f.duration, nil
}

func newSpeechFixture(t *testing.T, primary, fallback *fakeEngine) *SpeechService {
	t.Helper()
	cache, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	log := logger.New("error")
	svc := NewSpeechService(NewResilientSpeech(primary, fallback, log), &fakeAudio{duration: 2.5}, cache, nil, log, SpeechOptions{
		SampleRate:    22050,
		MaxTextLength: 1000,
		Postprocess:   true,
		DefaultVoice:  "en_US-lessac-medium",
	})
	svc.SetReady(true)
	return svc
}

func TestSpeechCachesByTextVoiceSpeed(t *testing.T) {
	ctx := context.Background()
	primary := &fakeEngine{name: "piper"}
	svc := newSpeechFixture(t, primary, &fakeEngine{name: "espeak"})

	req := &entity.TTSRequest{Text: "Breaking news from the harbor district tonight."}
	first, err := svc.Execute(ctx, "tester", req)
	require.NoError(t, err)
	assert.False(t, first.Metadata["cached"].(bool))
	assert.Equal(t, "piper", first.Metadata["engine_used"])
	assert.Equal(t, 2.5, first.Duration)
	assert.Equal(t, int64(1), primary.calls.Load())

	second, err := svc.Execute(ctx, "tester", &entity.TTSRequest{Text: "Breaking news from the harbor district tonight."})
	require.NoError(t, err)
	assert.True(t, second.Metadata["cached"].(bool))
	assert.Equal(t, 2.5, second.Duration, "duration comes from the index, not a re-probe")
	assert.Equal(t, first.AudioURL, second.AudioURL)
	assert.Equal(t, int64(1), primary.calls.Load())

	// A different speed changes the waveform and therefore the key.
	faster := &entity.TTSRequest{Text: "Breaking news from the harbor district tonight.", Speed: 1.5}
	third, err := svc.Execute(ctx, "tester", faster)
	require.NoError(t, err)
	assert.False(t, third.Metadata["cached"].(bool))
	assert.NotEqual(t, first.AudioURL, third.AudioURL)
}

func TestSpeechFallsBackToSecondEngine(t *testing.T) {
	ctx := context.Background()
	primary := &fakeEngine{name: "piper", fail: true}
	fallback := &fakeEngine{name: "espeak"}
	svc := newSpeechFixture(t, primary, fallback)

	resp, err := svc.Execute(ctx, "tester", &entity.TTSRequest{Text: "Weather update for the region."})
	require.NoError(t, err)
	assert.Equal(t, "espeak", resp.Metadata["engine_used"])
	assert.Equal(t, int64(1), primary.calls.Load())
	assert.Equal(t, int64(1), fallback.calls.Load())
}

func TestSpeechBothEnginesFail(t *testing.T) {
	svc := newSpeechFixture(t, &fakeEngine{name: "piper", fail: true}, &fakeEngine{name: "espeak", fail: true})

	_, err := svc.Execute(context.Background(), "tester", &entity.TTSRequest{Text: "Nothing will come of this."})
	assert.Error(t, err)
}

func TestSpeechValidation(t *testing.T) {
	svc := newSpeechFixture(t, &fakeEngine{name: "piper"}, &fakeEngine{name: "espeak"})

	_, err := svc.Execute(context.Background(), "tester", &entity.TTSRequest{Text: "Fine text.", Speed: 3.0})
	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "speed", verr.Field)
}

func TestSpeechBatchAbortsOnFirstFailure(t *testing.T) {
	ctx := context.Background()
	svc := newSpeechFixture(t, &fakeEngine{name: "piper"}, &fakeEngine{name: "espeak", fail: true})

	batch := &entity.BatchTTSRequest{Texts: []string{
		"First headline of the hour.",
		"Something unspeakable happened.",
		"Third headline of the hour.",
	}}

	responses, err := svc.ExecuteBatch(ctx, "tester", batch)
	require.Error(t, err, "one failing item must abort the whole batch")
	assert.Nil(t, responses)
}

func TestSpeechBatchAllSucceed(t *testing.T) {
	ctx := context.Background()
	svc := newSpeechFixture(t, &fakeEngine{name: "piper"}, &fakeEngine{name: "espeak"})

	batch := &entity.BatchTTSRequest{Texts: []string{
		"First headline of the hour.",
		"Second headline of the hour.",
	}}

	responses, err := svc.ExecuteBatch(ctx, "tester", batch)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.NotEqual(t, responses[0].AudioURL, responses[1].AudioURL)
}
