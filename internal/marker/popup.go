package marker

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/tracelink/tracelink/internal/geo"
)

// Accuracy grading thresholds in meters.
const (
	accuracyExcellent = 20
	accuracyGood      = 100
)

// PopupInfo is everything a marker popup shows about a member.
type PopupInfo struct {
	Name      string
	Role      string
	Position  geo.Point
	Accuracy  *int
	IsSelf    bool
	Online    bool
	LastSeen  int64
	PlaceName string
}

func accuracyGrade(accuracy int) (color, label string) {
	switch {
	case accuracy <= accuracyExcellent:
		return "#10b981", "Excellent"
	case accuracy <= accuracyGood:
		return "#f59e0b", "Good"
	default:
		return "#e8394a", "Low"
	}
}

// TimeAgo renders a last-seen timestamp (unix milliseconds) as a coarse
// human phrase.
func TimeAgo(lastSeen int64, now time.Time) string {
	if lastSeen <= 0 {
		return "Unknown"
	}
	diff := now.Sub(time.UnixMilli(lastSeen))
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d min ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hr ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	}
}

// BuildPopup renders the popup HTML for one member.
func BuildPopup(info PopupInfo, now time.Time) string {
	var b strings.Builder

	var status string
	switch {
	case info.IsSelf:
		status = `<div class="pp-status online"><span class="pp-status-dot"></span>Me</div>`
	case info.Online:
		status = `<div class="pp-status online"><span class="pp-status-dot"></span>Online</div>`
	default:
		status = fmt.Sprintf(`<div class="pp-status offline">%s</div>`, TimeAgo(info.LastSeen, now))
	}

	name := html.EscapeString(info.Name)
	initial := html.EscapeString(initialOf(info.Name))

	b.WriteString(`<div class="pp-wrap"><div class="pp-header">`)
	fmt.Fprintf(&b, `<div class="pp-avatar">%s</div>`, initial)
	fmt.Fprintf(&b, `<div class="pp-header-info"><div class="pp-name">%s</div>`, name)
	if info.Role != "" {
		fmt.Fprintf(&b, `<div class="pp-role">%s</div>`, html.EscapeString(info.Role))
	}
	b.WriteString(`</div>`)
	b.WriteString(status)
	b.WriteString(`</div><div class="pp-body">`)

	fmt.Fprintf(&b, `<div class="pp-row"><span class="pp-row-label">Coords</span><span class="pp-row-val mono">%.5f, %.5f</span></div>`,
		info.Position.Lat, info.Position.Lng)
	if info.PlaceName != "" {
		fmt.Fprintf(&b, `<div class="pp-row"><span class="pp-row-label">Location</span><span class="pp-row-val">%s</span></div>`,
			html.EscapeString(info.PlaceName))
	}
	if info.Accuracy != nil {
		color, label := accuracyGrade(*info.Accuracy)
		fmt.Fprintf(&b, `<div class="pp-row"><span class="pp-row-label">Accuracy</span><span class="pp-row-val" style="color:%s">%dm (%s)</span></div>`,
			color, *info.Accuracy, label)
	} else {
		b.WriteString(`<div class="pp-row"><span class="pp-row-label">Accuracy</span><span class="pp-row-val">&mdash;</span></div>`)
	}

	b.WriteString(`</div></div>`)
	return b.String()
}
