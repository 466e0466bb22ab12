package templates

import (
	"fmt"
	"strings"
)

// StreamURL is where the story reveal is served.
const StreamURL = "/story/stream"

// GaugeStatus describes how healthy a resource value is and the colour its
// number is drawn in.
type GaugeStatus struct {
	Key         string
	Description string
	Color       string
}

// CriticalThreshold is the value below which a gauge is drawn as critical.
const CriticalThreshold = 20

var gaugeStatuses = []GaugeStatus{
	{"strong", "Strong", "#22d3ee"},     // Cyan
	{"stable", "Stable", "#67e8f9"},     // Light cyan
	{"strained", "Strained", "#fbbf24"}, // Amber
	{"critical", "Critical", "#f87171"}, // Red
	{"depleted", "Depleted", "#6b7280"}, // Gray
}

// GetGaugeStatus returns a GaugeStatus for a 0-100 resource value.
func GetGaugeStatus(value int) GaugeStatus {
	switch {
	case value >= 80:
		return gaugeStatuses[0]
	case value >= 50:
		return gaugeStatuses[1]
	case value >= CriticalThreshold:
		return gaugeStatuses[2]
	case value > 0:
		return gaugeStatuses[3]
	default:
		return gaugeStatuses[4]
	}
}

// GaugeStyle is the icon and bar colour of one resource.
type GaugeStyle struct {
	Icon     string
	BarColor string
}

var gaugeStyles = map[string]GaugeStyle{
	"aiProgress":  {"🧠", "#22c55e"},
	"compute":     {"💻", "#3b82f6"},
	"talent":      {"👩‍🔬", "#a855f7"},
	"funding":     {"💰", "#eab308"},
	"publicTrust": {"🌍", "#ec4899"},
}

var gaugeOrder = []string{"aiProgress", "compute", "talent", "funding", "publicTrust"}

// StyleFor returns the style of the resource key, or a neutral one.
func StyleFor(key string) GaugeStyle {
	if s, ok := gaugeStyles[key]; ok {
		return s
	}
	return GaugeStyle{"•", "#06b6d4"}
}

// GaugeStyles generates the style block colouring each gauge bar and each
// status value.
func GaugeStyles() string {
	var b strings.Builder
	b.WriteString("<style>\n")
	for _, key := range gaugeOrder {
		fmt.Fprintf(&b, "\t[data-gauge=%s] progress { accent-color: %s; }\n", key, gaugeStyles[key].BarColor)
	}
	for _, s := range gaugeStatuses {
		fmt.Fprintf(&b, "\t[data-status=%s] { color: %s; }\n", s.Key, s.Color)
	}
	b.WriteString("</style>\n")
	return b.String()
}
