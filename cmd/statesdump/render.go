package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"opensky-state-decoder/internal/model"
	"opensky-state-decoder/pkg/utils"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"})
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#969B86", Dark: "#696969"})
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF0000"})
)

// render prints the capture time, one line per vehicle and then every
// diagnostic in encounter order. Contact age is measured against the capture
// time, or now when the reply carries none.
func render(reply *model.Reply, loc *time.Location, now time.Time) string {
	var b strings.Builder

	ref := now
	if reply.CapturedAt != nil {
		ref = *reply.CapturedAt
	}

	diags := reply.AllDiagnostics()
	b.WriteString(headerStyle.Render(fmt.Sprintf("captured %s  vehicles %d  diagnostics %d",
		utils.FormatLocal(reply.CapturedAt, loc), len(reply.Vehicles), len(diags))))
	b.WriteString("\n")

	for i := range reply.Vehicles {
		b.WriteString(vehicleLine(&reply.Vehicles[i], loc, ref))
		b.WriteString("\n")
	}

	if len(diags) > 0 {
		b.WriteString("\n")
	}
	for _, d := range diags {
		b.WriteString(warnStyle.Render(d.String()))
		b.WriteString("\n")
	}
	return b.String()
}

func vehicleLine(sv *model.StateVector, loc *time.Location, ref time.Time) string {
	status := "airborne"
	if sv.OnGround {
		status = "ground"
	}
	source := "-"
	if sv.PositionSource != nil {
		source = sv.PositionSource.String()
	}

	age := "-"
	if sv.LastContact != nil {
		age = utils.Age(sv.LastContact, ref).String()
	}

	line := fmt.Sprintf("%-6s %-8s %-20s lat %s lon %s alt %s vel %s %s %s seen %s (%s ago)",
		sv.ICAO24,
		utils.FormatString(sv.Callsign),
		utils.FormatString(sv.OriginCountry),
		utils.FormatFloat(sv.Latitude, 4),
		utils.FormatFloat(sv.Longitude, 4),
		utils.FormatFloat(sv.BaroAltitude, 0),
		utils.FormatFloat(sv.Velocity, 1),
		status,
		source,
		utils.FormatLocal(sv.LastContact, loc),
		age,
	)
	if !sv.HasPosition() {
		return dimStyle.Render(line)
	}
	return line
}
