package schemas

// ClipRecord is one successfully generated video clip, in assembly order.
type ClipRecord struct {
	ShotID      string  `json:"shot_id"`
	SceneID     string  `json:"scene_id"`
	URL         string  `json:"url"`
	DurationSec float64 `json:"duration_sec"`
	Index       int     `json:"index"`
}

// AudioTrackRef references a generated audio track.
type AudioTrackRef struct {
	Kind        string  `json:"kind"`
	URL         string  `json:"url"`
	DurationSec float64 `json:"duration_sec,omitempty"`
}

// AssetBundle collects everything the generation stage produced.
type AssetBundle struct {
	Clips     []ClipRecord   `json:"clips,omitempty"`
	Music     *AudioTrackRef `json:"music,omitempty"`
	Voiceover *AudioTrackRef `json:"voiceover,omitempty"`
}

// ProductionResult is the final outcome of a single run. Errors that
// were non-fatal during the run are preserved in Progress.Errors even
// when Success is true.
type ProductionResult struct {
	Success     bool               `json:"success"`
	VideoURL    string             `json:"video_url,omitempty"`
	DurationSec float64            `json:"duration_sec,omitempty"`
	CreditsUsed int                `json:"credits_used"`
	Progress    ProductionProgress `json:"progress"`
	Error       string             `json:"error,omitempty"`
	Assets      *AssetBundle       `json:"assets,omitempty"`
}
