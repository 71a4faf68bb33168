package suggest

import (
	"fmt"
	"strings"
)

// CollisionPolicy decides what happens when two eligible fields share a
// verbose name but carry different entries.
type CollisionPolicy string

const (
	// CollisionLastWins keeps the entry processed last.
	CollisionLastWins CollisionPolicy = "last-wins"
	// CollisionFirstWins keeps the entry processed first.
	CollisionFirstWins CollisionPolicy = "first-wins"
	// CollisionFail aborts the build with a *CollisionError.
	CollisionFail CollisionPolicy = "error"
)

// ParseCollisionPolicy validates a policy name. Empty input selects
// CollisionLastWins.
func ParseCollisionPolicy(raw string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", CollisionLastWins:
		return CollisionLastWins, nil
	case CollisionFirstWins:
		return CollisionFirstWins, nil
	case CollisionFail:
		return CollisionFail, nil
	default:
		return "", fmt.Errorf("suggest: unknown collision policy %q", raw)
	}
}

// Origin identifies the model field an entry came from.
type Origin struct {
	Model string `json:"model"`
	Field string `json:"field"`
	Entry Entry  `json:"entry"`
}

// Collision lists every field that produced a conflicting entry for Key, in
// processing order.
type Collision struct {
	Key     string   `json:"key"`
	Origins []Origin `json:"origins"`
}

// CollisionError reports conflicting verbose names under CollisionFail.
type CollisionError struct {
	Collisions []Collision
}

func (e *CollisionError) Error() string {
	if e == nil || len(e.Collisions) == 0 {
		return "suggest: verbose name collision"
	}
	parts := make([]string, 0, len(e.Collisions))
	for _, collision := range e.Collisions {
		fields := make([]string, 0, len(collision.Origins))
		for _, origin := range collision.Origins {
			fields = append(fields, origin.Model+"."+origin.Field)
		}
		parts = append(parts, fmt.Sprintf("%q (%s)", collision.Key, strings.Join(fields, ", ")))
	}
	return "suggest: verbose name collision: " + strings.Join(parts, "; ")
}
