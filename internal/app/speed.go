package app

import (
	"fmt"
	"strings"

	"golgl/internal/core"
)

// ParseSpeed accepts the speed labels case-insensitively.
func ParseSpeed(s string) (core.Speed, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "slow":
		return core.SpeedSlow, nil
	case "normal", "":
		return core.SpeedNormal, nil
	case "fast":
		return core.SpeedFast, nil
	default:
		return core.SpeedNormal, fmt.Errorf("app: unknown speed %q", s)
	}
}
