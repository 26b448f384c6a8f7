package marker

// SelfColor is reserved for the local member's own marker.
const SelfColor = "#0F3775"

var palette = []string{
	"#289DF2", "#10b981", "#f59e0b", "#e8394a", "#8b5cf6",
	"#ec4899", "#14b8a6", "#f97316", "#06b6d4", "#84cc16",
	"#a855f7", "#ef4444", "#22d3ee", "#fb923c", "#4ade80",
}

// Colors assigns each member id a palette color round-robin at first sight.
// Deterministic for an id within one session; not stable across sessions.
type Colors struct {
	assigned map[string]string
	next     int
}

func NewColors() *Colors {
	return &Colors{assigned: make(map[string]string)}
}

func (c *Colors) For(id string) string {
	if color, ok := c.assigned[id]; ok {
		return color
	}
	color := palette[c.next%len(palette)]
	c.assigned[id] = color
	c.next++
	return color
}
