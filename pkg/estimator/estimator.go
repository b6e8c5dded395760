// Package estimator computes the credit cost of a production before any
// chargeable work happens. All functions are pure: no provider calls, no
// side effects, identical input yields identical totals.
package estimator

import (
	"math"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

// Credit pricing constants. These must stay stable: callers compare
// pre-run estimates against post-run consumption.
const (
	CreditsPerShot          = 10
	MusicFlatCredits        = 5
	VoiceoverMinCredits     = 2
	VoiceoverCreditsPerUnit = 2
	VoiceoverCharsPerUnit   = 1000
	AssemblyCreditsPerMin   = 50

	// minAssemblyMinutes is the hard billing floor of half a minute.
	minAssemblyMinutes = 0.5

	// estimatedCharsPerMinute approximates spoken characters per minute
	// when no dialogue is supplied. A heuristic, not a guaranteed bound.
	estimatedCharsPerMinute = 500
)

// CostBreakdown itemizes a credit estimate.
type CostBreakdown struct {
	ShotCount        int `json:"shot_count"`
	VideoCredits     int `json:"video_credits"`
	MusicCredits     int `json:"music_credits"`
	VoiceoverCredits int `json:"voiceover_credits"`
	AssemblyCredits  int `json:"assembly_credits"`
	Total            int `json:"total"`
}

// Estimator computes credit costs for production and assembly requests.
type Estimator struct{}

// New creates an Estimator.
func New() *Estimator {
	return &Estimator{}
}

// Estimate computes the required credits for a single production run.
func (e *Estimator) Estimate(req *schemas.ProductionRequest) CostBreakdown {
	var b CostBreakdown

	b.ShotCount = ShotCount(req)
	b.VideoCredits = b.ShotCount * CreditsPerShot

	if req.MusicEnabled() {
		b.MusicCredits = MusicFlatCredits
	}

	if req.VoiceoverEnabled() {
		chars := len(req.DialogueText())
		if chars == 0 {
			chars = int((req.TotalSeconds() / 60) * estimatedCharsPerMinute)
		}
		if chars > 0 {
			b.VoiceoverCredits = VoiceoverCredits(chars)
		}
	}

	// Price assembly from planned clip footage (shots are fixed-length)
	// so the estimate always bounds what a run can actually consume.
	b.AssemblyCredits = AssemblyCredits(float64(b.ShotCount) * schemas.ShotSeconds)
	b.Total = b.VideoCredits + b.MusicCredits + b.VoiceoverCredits + b.AssemblyCredits
	return b
}

// EstimateAssembly computes the assembly cost of a declared timeline.
func (e *Estimator) EstimateAssembly(opts *schemas.AssemblyOptions) int {
	return AssemblyCredits(opts.TotalClipSeconds())
}

// EstimateSeries sums per-episode estimates. No cross-segment discount.
func (e *Estimator) EstimateSeries(cfg *schemas.SeriesConfig) int {
	total := 0
	for _, ep := range cfg.Episodes {
		total += e.Estimate(&schemas.ProductionRequest{
			ProjectID:      cfg.ProjectID,
			Scenes:         ep.Scenes,
			Settings:       cfg.Settings,
			TargetDuration: ep.TargetDuration,
			Genre:          cfg.Genre,
		}).Total
	}
	return total
}

// EstimateMovie sums per-act estimates, synthesizing the canonical
// three-act split when no acts are declared.
func (e *Estimator) EstimateMovie(cfg *schemas.MovieConfig) int {
	total := 0
	for _, act := range cfg.EffectiveActs() {
		total += e.Estimate(&schemas.ProductionRequest{
			ProjectID:      cfg.ProjectID,
			Scenes:         act.Scenes,
			Settings:       cfg.Settings,
			TargetDuration: act.TargetDuration,
			Genre:          cfg.Genre,
		}).Total
	}
	return total
}

// ShotCount returns the number of shots a request will plan: per-scene
// ceil(duration/5) with a minimum of one shot per scene, or
// ceil(target/5) when scenes will be synthesized from a prompt. A
// prompt with no target synthesizes one default-length scene, so it is
// priced as one.
func ShotCount(req *schemas.ProductionRequest) int {
	if len(req.Scenes) == 0 {
		target := req.TargetSeconds()
		if target <= 0 {
			target = schemas.DefaultSceneSeconds
		}
		return int(math.Ceil(target / schemas.ShotSeconds))
	}
	total := 0
	for _, s := range req.Scenes {
		n := int(math.Ceil(s.EffectiveDuration() / schemas.ShotSeconds))
		if n < 1 {
			n = 1
		}
		total += n
	}
	return total
}

// VoiceoverCredits prices a voiceover of the given character count:
// 2 credits per started block of 1000 characters, floor of 2.
func VoiceoverCredits(chars int) int {
	credits := int(math.Ceil(float64(chars)/VoiceoverCharsPerUnit)) * VoiceoverCreditsPerUnit
	if credits < VoiceoverMinCredits {
		credits = VoiceoverMinCredits
	}
	return credits
}

// AssemblyCredits prices rendering totalSeconds of footage, with a hard
// floor of half a billing minute.
func AssemblyCredits(totalSeconds float64) int {
	minutes := totalSeconds / 60
	if minutes < minAssemblyMinutes {
		minutes = minAssemblyMinutes
	}
	return int(math.Ceil(minutes * AssemblyCreditsPerMin))
}
