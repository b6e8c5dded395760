package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/providers"
	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

// Deterministic provider fakes. All are configured unless
// unconfigured is set, and count their calls.

type fakeVideo struct {
	unconfigured bool
	failIndex    map[int]bool
	calls        int
}

func (f *fakeVideo) Configured() bool { return !f.unconfigured }

func (f *fakeVideo) Generate(ctx context.Context, req providers.VideoRequest) (*providers.VideoResult, error) {
	i := f.calls
	f.calls++
	if f.failIndex[i] {
		return nil, errors.New("upstream rejected prompt")
	}
	return &providers.VideoResult{URL: fmt.Sprintf("https://transient.example/clip-%02d.mp4", i)}, nil
}

type fakeMusic struct {
	unconfigured bool
	fail         bool
	calls        int
	lastRequest  providers.MusicRequest
}

func (f *fakeMusic) Configured() bool { return !f.unconfigured }

func (f *fakeMusic) Generate(ctx context.Context, req providers.MusicRequest) (*providers.MusicResult, error) {
	f.calls++
	f.lastRequest = req
	if f.fail {
		return nil, errors.New("music service unavailable")
	}
	return &providers.MusicResult{URL: "https://transient.example/music.mp3", DurationSec: req.MaxSeconds}, nil
}

type fakeVoiceover struct {
	unconfigured bool
	fail         bool
	calls        int
	lastText     string
}

func (f *fakeVoiceover) Configured() bool { return !f.unconfigured }

func (f *fakeVoiceover) Generate(ctx context.Context, req providers.VoiceoverRequest) (*providers.VoiceoverResult, error) {
	f.calls++
	f.lastText = req.Text
	if f.fail {
		return nil, errors.New("voiceover service unavailable")
	}
	return &providers.VoiceoverResult{URL: "https://transient.example/voice.mp3", DurationSec: 8}, nil
}

// fakeAssembler replays a scripted sequence of poll statuses; the last
// status repeats forever.
type fakeAssembler struct {
	unconfigured bool
	submitErr    error
	statuses     []schemas.AssemblyStatus
	pollErrs     []error

	mu      sync.Mutex
	submits int
	polls   int
}

func (f *fakeAssembler) Configured() bool { return !f.unconfigured }

func (f *fakeAssembler) Submit(ctx context.Context, opts *schemas.AssemblyOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "render-1", nil
}

func (f *fakeAssembler) Poll(ctx context.Context, renderID string) (*schemas.AssemblyStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.polls
	f.polls++
	if i < len(f.pollErrs) && f.pollErrs[i] != nil {
		return nil, f.pollErrs[i]
	}
	if len(f.statuses) == 0 {
		return &schemas.AssemblyStatus{State: schemas.RenderRendering}, nil
	}
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	status := f.statuses[i]
	return &status, nil
}

func (f *fakeAssembler) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submits
}

// completedAssembler finishes on the first poll.
func completedAssembler(url string) *fakeAssembler {
	return &fakeAssembler{
		statuses: []schemas.AssemblyStatus{{State: schemas.RenderCompleted, VideoURL: url}},
	}
}

type fakePersister struct {
	err   error
	calls int
	last  string
}

func (f *fakePersister) Persist(ctx context.Context, transientURL, projectID, sceneID string) (string, error) {
	f.calls++
	f.last = transientURL
	if f.err != nil {
		return "", f.err
	}
	return "s3://halcyon-assets/" + projectID + "/final.mp4", nil
}
