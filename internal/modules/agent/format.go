// README: Condensed result summaries for the chat and the re-entrant LLM pass.
package agent

import (
	"fmt"
	"strings"

	"rovis/internal/maps"
)

func fmtDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func fmtDistance(meters int) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", float64(meters)/1000)
	}
	return fmt.Sprintf("%d m", meters)
}

// FormatPlaces renders a places result as a numbered pin list.
func FormatPlaces(resp maps.PlacesResponse) string {
	if len(resp.Items) == 0 {
		return "No places found."
	}

	var sb strings.Builder
	sb.WriteString("Here are the places I found:\n\n")
	for i, item := range resp.Items {
		var names []string
		for _, c := range item.Categories {
			if c.Name != "" {
				names = append(names, c.Name)
			}
		}
		category := "Not specified"
		if len(names) > 0 {
			category = strings.Join(names, ", ")
		}

		sb.WriteString(fmt.Sprintf("Pin %d: %s\n", i+1, item.Title))
		sb.WriteString(fmt.Sprintf("- Address: %s\n", item.Address.Label))
		sb.WriteString(fmt.Sprintf("- Category: %s\n\n", category))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatRoute renders a route result as a distance/duration summary with the
// guidance breakdown.
func FormatRoute(resp maps.RouteResponse) string {
	if len(resp.Routes) == 0 {
		return "No route found."
	}

	route := resp.Routes[0]
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Route found: %s, about %s of driving.\n",
		fmtDistance(route.Summary.LengthInMeters),
		fmtDuration(route.Summary.TravelTimeInSeconds)))

	if len(route.Guidance.InstructionGroups) > 0 {
		sb.WriteString("Directions:\n")
		for _, g := range route.Guidance.InstructionGroups {
			sb.WriteString(fmt.Sprintf("- %s (%s)\n", g.GroupMessage, fmtDistance(g.GroupLengthInMeters)))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
