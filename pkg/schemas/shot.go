package schemas

// GeneratedShot is one planned unit of video generation. Created by the
// shot planner; VideoURL is filled in once when generation for the shot
// completes, never mutated after.
type GeneratedShot struct {
	ID          string  `json:"id"`
	SceneID     string  `json:"scene_id"`
	Description string  `json:"description"`
	Index       int     `json:"index"`
	VideoURL    string  `json:"video_url,omitempty"`
	DurationSec float64 `json:"duration_sec"`
}
