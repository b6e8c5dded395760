package schemas

// DefaultSceneSeconds is the fallback scene duration when a scene
// does not declare one.
const DefaultSceneSeconds = 10.0

// ShotSeconds is the fixed length of a single generated shot.
const ShotSeconds = 5.0

// ProductionRequest is the user-submitted request for a single
// production run. It must resolve to at least one scene, either through
// an explicit scene list or through prompt-derived synthesis.
type ProductionRequest struct {
	ProjectID      string       `json:"project_id"`
	Prompt         string       `json:"prompt,omitempty"`
	Scenes         []SceneInput `json:"scenes,omitempty"`
	Settings       *Settings    `json:"settings,omitempty"`
	TargetDuration *Duration    `json:"target_duration,omitempty"`
	Genre          string       `json:"genre,omitempty"`
}

// Settings carries audio and assembly preferences for a run.
// Music and voiceover are opt-out: a nil flag means enabled.
type Settings struct {
	IncludeMusicTrack *bool   `json:"include_music_track,omitempty"`
	IncludeVoiceover  *bool   `json:"include_voiceover,omitempty"`
	MusicMood         string  `json:"music_mood,omitempty"`
	MusicGenre        string  `json:"music_genre,omitempty"`
	Voice             string  `json:"voice,omitempty"`
	VoiceSpeed        float64 `json:"voice_speed,omitempty"`
	TransitionType    string  `json:"transition_type,omitempty"`
	AspectRatio       string  `json:"aspect_ratio,omitempty"`
	Resolution        string  `json:"resolution,omitempty"`
}

// SceneInput describes one scene of the requested production.
// Immutable once constructed.
type SceneInput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description"`
	Dialogue    []string `json:"dialogue,omitempty"`
	DurationSec float64  `json:"duration_sec,omitempty"`
	Mood        string   `json:"mood,omitempty"`
	Setting     string   `json:"setting,omitempty"`
}

// EffectiveDuration returns the scene duration in seconds, falling back
// to DefaultSceneSeconds when none was supplied.
func (s SceneInput) EffectiveDuration() float64 {
	if s.DurationSec <= 0 {
		return DefaultSceneSeconds
	}
	return s.DurationSec
}

// MusicEnabled reports whether a music track should be generated.
func (s *Settings) MusicEnabled() bool {
	return s == nil || s.IncludeMusicTrack == nil || *s.IncludeMusicTrack
}

// VoiceoverEnabled reports whether a voiceover should be generated.
func (s *Settings) VoiceoverEnabled() bool {
	return s == nil || s.IncludeVoiceover == nil || *s.IncludeVoiceover
}

// MusicEnabled reports whether the request asks for a music track.
func (r *ProductionRequest) MusicEnabled() bool {
	return r.Settings.MusicEnabled()
}

// VoiceoverEnabled reports whether the request asks for a voiceover.
func (r *ProductionRequest) VoiceoverEnabled() bool {
	return r.Settings.VoiceoverEnabled()
}

// TargetSeconds returns the requested total duration in seconds, or 0
// when no target was supplied.
func (r *ProductionRequest) TargetSeconds() float64 {
	if r.TargetDuration == nil {
		return 0
	}
	return r.TargetDuration.Seconds()
}

// TotalSeconds returns the best-known total duration of the production:
// the sum of scene durations when scenes are given, else the target
// duration.
func (r *ProductionRequest) TotalSeconds() float64 {
	if len(r.Scenes) == 0 {
		return r.TargetSeconds()
	}
	var total float64
	for _, s := range r.Scenes {
		total += s.EffectiveDuration()
	}
	return total
}

// DialogueText concatenates all scene dialogue lines joined by ". ".
// Returns the empty string when no scene carries dialogue.
func (r *ProductionRequest) DialogueText() string {
	var lines []string
	for _, s := range r.Scenes {
		for _, l := range s.Dialogue {
			if l != "" {
				lines = append(lines, l)
			}
		}
	}
	return joinLines(lines)
}

func joinLines(lines []string) string {
	switch len(lines) {
	case 0:
		return ""
	case 1:
		return lines[0]
	}
	out := lines[0]
	for _, l := range lines[1:] {
		out += ". " + l
	}
	return out
}
