package batch

import (
	"fmt"
	"strings"

	"github.com/ehudso7/halcyon-cinema-sub003/pkg/schemas"
)

// BuildContinuityContext renders the character roster into a single
// reusable string threaded verbatim into every segment prompt.
func BuildContinuityContext(characters []schemas.CharacterProfile) string {
	if len(characters) == 0 {
		return ""
	}
	entries := make([]string, 0, len(characters))
	for _, c := range characters {
		entry := c.Name
		if c.Role != "" {
			entry += fmt.Sprintf(" (%s)", c.Role)
		}
		if c.Description != "" {
			entry += ": " + c.Description
		}
		entries = append(entries, entry)
	}
	return "Recurring characters: " + strings.Join(entries, "; ")
}

// episodePrompt builds the generation prompt for one episode, with
// positional guidance for the premiere and the finale.
func episodePrompt(series *schemas.SeriesConfig, ep schemas.EpisodeConfig, index, total int, continuity string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, episode %d: %s", series.Title, ep.Number, ep.Title)
	if ep.Synopsis != "" {
		b.WriteString(". " + ep.Synopsis)
	}
	if continuity != "" {
		b.WriteString(". " + continuity)
	}
	switch {
	case index == 0:
		b.WriteString(". This is the series premiere: establish the world and characters")
	case index == total-1:
		b.WriteString(". This is the series finale: resolve the plot threads")
	}
	return b.String()
}

// actPrompt builds the generation prompt for one act. Acts are tagged
// by canonical position regardless of custom titles.
func actPrompt(movie *schemas.MovieConfig, act schemas.ActConfig, index, total int, continuity string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %s: %s", movie.Title, actPosition(index, total), act.Title)
	if act.Synopsis != "" {
		b.WriteString(". " + act.Synopsis)
	}
	if continuity != "" {
		b.WriteString(". " + continuity)
	}
	return b.String()
}

// actPosition maps an act's position onto the canonical three-act
// vocabulary: the first act is Setup, the last Resolution, everything
// between Confrontation.
func actPosition(index, total int) string {
	switch {
	case index == 0:
		return "Act 1 - Setup"
	case index == total-1:
		return fmt.Sprintf("Act %d - Resolution", index+1)
	default:
		return fmt.Sprintf("Act %d - Confrontation", index+1)
	}
}
