package cli

import (
	"strings"
	"time"

	"github.com/fatih/color"
)

var tierColors = map[string]*color.Color{
	"GREEN": color.New(color.FgGreen),
	"AMBER": color.New(color.FgYellow),
	"RED":   color.New(color.FgRed, color.Bold),
	"GRAY":  color.New(color.FgHiBlack),
}

// colorTier renders a tier name in its traffic-light colour.
func colorTier(tier string) string {
	if c, ok := tierColors[tier]; ok {
		return c.Sprint(tier)
	}
	return tier
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatRoles(primary string, secondary []string) string {
	if primary == "" {
		return "-"
	}
	if len(secondary) == 0 {
		return primary
	}
	return primary + " (+" + strings.Join(secondary, ", ") + ")"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
