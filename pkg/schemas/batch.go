package schemas

import "math"

// CharacterProfile describes a recurring character used to build the
// continuity context threaded through every segment prompt.
type CharacterProfile struct {
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
	Description string `json:"description,omitempty"`
}

// SeriesConfig describes a multi-episode production.
type SeriesConfig struct {
	ProjectID  string             `json:"project_id"`
	Title      string             `json:"title"`
	Genre      string             `json:"genre,omitempty"`
	Characters []CharacterProfile `json:"characters,omitempty"`
	Episodes   []EpisodeConfig    `json:"episodes"`
	Settings   *Settings          `json:"settings,omitempty"`
}

// EpisodeConfig describes one episode of a series.
type EpisodeConfig struct {
	Number         int          `json:"number"`
	Title          string       `json:"title"`
	Synopsis       string       `json:"synopsis,omitempty"`
	Scenes         []SceneInput `json:"scenes,omitempty"`
	TargetDuration *Duration    `json:"target_duration,omitempty"`
}

// MovieConfig describes a multi-act movie production. Acts may be empty,
// in which case a canonical three-act split is synthesized from the
// target duration.
type MovieConfig struct {
	ProjectID      string             `json:"project_id"`
	Title          string             `json:"title"`
	Genre          string             `json:"genre,omitempty"`
	Characters     []CharacterProfile `json:"characters,omitempty"`
	Acts           []ActConfig        `json:"acts,omitempty"`
	TargetDuration *Duration          `json:"target_duration,omitempty"`
	Settings       *Settings          `json:"settings,omitempty"`
}

// ActConfig describes one act of a movie.
type ActConfig struct {
	Number         int          `json:"number"`
	Title          string       `json:"title"`
	Synopsis       string       `json:"synopsis,omitempty"`
	Scenes         []SceneInput `json:"scenes,omitempty"`
	TargetDuration *Duration    `json:"target_duration,omitempty"`
}

// EffectiveActs returns the declared acts, or the canonical three-act
// structure (25% / 50% / 25% of the target duration) when none are
// declared. Returns nil if acts are empty and no target duration exists
// to split.
func (m *MovieConfig) EffectiveActs() []ActConfig {
	if len(m.Acts) > 0 {
		return m.Acts
	}
	if m.TargetDuration == nil || m.TargetDuration.Seconds() <= 0 {
		return nil
	}
	total := m.TargetDuration.Seconds()
	split := func(fraction float64) *Duration {
		return SecondsDuration(math.Round(total * fraction))
	}
	return []ActConfig{
		{Number: 1, Title: "Setup", TargetDuration: split(0.25)},
		{Number: 2, Title: "Confrontation", TargetDuration: split(0.50)},
		{Number: 3, Title: "Resolution", TargetDuration: split(0.25)},
	}
}

// BatchKind distinguishes series and movie batches.
type BatchKind string

const (
	BatchKindSeries BatchKind = "series"
	BatchKindMovie  BatchKind = "movie"
)

// SegmentState is the per-segment lifecycle within a batch.
type SegmentState string

const (
	SegmentPending    SegmentState = "pending"
	SegmentProcessing SegmentState = "processing"
	SegmentCompleted  SegmentState = "completed"
	SegmentFailed     SegmentState = "failed"
)

// SegmentStatus records the outcome of one segment.
type SegmentStatus struct {
	Number   int          `json:"number"`
	Title    string       `json:"title"`
	State    SegmentState `json:"state"`
	VideoURL string       `json:"video_url,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// BatchProductionProgress is the batch-level progress state.
type BatchProductionProgress struct {
	Kind              BatchKind       `json:"kind"`
	Title             string          `json:"title"`
	TotalSegments     int             `json:"total_segments"`
	CompletedSegments int             `json:"completed_segments"`
	CurrentSegment    string          `json:"current_segment,omitempty"`
	Percent           float64         `json:"percent"`
	Segments          []SegmentStatus `json:"segments"`
	Errors            []string        `json:"errors,omitempty"`
}

// Clone returns a deep copy safe to hand to an observer.
func (p BatchProductionProgress) Clone() BatchProductionProgress {
	out := p
	out.Segments = append([]SegmentStatus(nil), p.Segments...)
	out.Errors = append([]string(nil), p.Errors...)
	return out
}

// SegmentVideo is one finished segment video.
type SegmentVideo struct {
	Number      int     `json:"number"`
	Title       string  `json:"title"`
	VideoURL    string  `json:"video_url"`
	DurationSec float64 `json:"duration_sec"`
}

// BatchProductionResult aggregates a whole batch. Success is true iff
// at least one segment produced a playable video; duration and credit
// totals cover successful segments only.
type BatchProductionResult struct {
	Success          bool                    `json:"success"`
	Videos           []SegmentVideo          `json:"videos,omitempty"`
	TotalDurationSec float64                 `json:"total_duration_sec"`
	CreditsUsed      int                     `json:"credits_used"`
	Progress         BatchProductionProgress `json:"progress"`
	Error            string                  `json:"error,omitempty"`
}
