// Package planner decomposes scenes into ordered shot lists with
// synthesized visual descriptions. Planning is pure and deterministic:
// identical input always yields identical shots.
package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

// shotTypes is the fixed rotation of shot framings, indexed by the
// shot's position within its scene modulo 4.
var shotTypes = []string{
	"establishing wide shot",
	"medium shot",
	"close-up",
	"dynamic tracking shot",
}

// qualitySuffix is appended to every shot description.
const qualitySuffix = "cinematic lighting, high detail, 24fps film look"

// Planner plans shots for scenes and synthesizes scenes from prompts.
type Planner struct{}

// New creates a Planner.
func New() *Planner {
	return &Planner{}
}

// PlanScenes expands an ordered scene list into the run's full shot
// list. The very first shot of the run is prefixed "Opening", the very
// last "Final".
func (p *Planner) PlanScenes(scenes []schemas.SceneInput) []schemas.GeneratedShot {
	var shots []schemas.GeneratedShot
	for _, scene := range scenes {
		shots = append(shots, p.planScene(scene, len(shots))...)
	}
	if len(shots) > 0 {
		shots[0].Description = "Opening: " + shots[0].Description
		shots[len(shots)-1].Description = "Final: " + shots[len(shots)-1].Description
	}
	return shots
}

// planScene plans one scene's shots: ceil(duration/5), minimum one.
func (p *Planner) planScene(scene schemas.SceneInput, offset int) []schemas.GeneratedShot {
	count := int(math.Ceil(scene.EffectiveDuration() / schemas.ShotSeconds))
	if count < 1 {
		count = 1
	}

	shots := make([]schemas.GeneratedShot, 0, count)
	for i := 0; i < count; i++ {
		shots = append(shots, schemas.GeneratedShot{
			ID:          fmt.Sprintf("%s_shot_%02d", scene.ID, i+1),
			SceneID:     scene.ID,
			Description: describeShot(scene, i),
			Index:       offset + i,
			DurationSec: schemas.ShotSeconds,
		})
	}
	return shots
}

// describeShot builds the generation prompt for one shot.
func describeShot(scene schemas.SceneInput, shotIndex int) string {
	parts := []string{shotTypes[shotIndex%len(shotTypes)], scene.Description}
	if scene.Setting != "" {
		parts = append(parts, "set in "+scene.Setting)
	}
	if scene.Mood != "" {
		parts = append(parts, scene.Mood+" mood")
	}
	parts = append(parts, qualitySuffix)
	return strings.Join(parts, ", ")
}

// ScenesFromPrompt synthesizes a scene list from a free-text prompt by
// splitting the target duration into default-length scenes. At least
// one scene is always produced.
func (p *Planner) ScenesFromPrompt(prompt string, targetSeconds float64, genre string) []schemas.SceneInput {
	count := int(math.Ceil(targetSeconds / schemas.DefaultSceneSeconds))
	if count < 1 {
		count = 1
	}

	remaining := targetSeconds
	if remaining <= 0 {
		remaining = schemas.DefaultSceneSeconds
	}

	scenes := make([]schemas.SceneInput, 0, count)
	for i := 0; i < count; i++ {
		dur := schemas.DefaultSceneSeconds
		if remaining < dur {
			dur = remaining
		}
		remaining -= dur

		desc := fmt.Sprintf("%s, part %d of %d", prompt, i+1, count)
		if genre != "" {
			desc += ", " + genre + " style"
		}
		scenes = append(scenes, schemas.SceneInput{
			ID:          fmt.Sprintf("scene_%02d", i+1),
			Description: desc,
			DurationSec: dur,
		})
	}
	return scenes
}
