package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/inject/component"
	"github.com/kbukum/inject/di"
)

// ComponentInfo records a component added through AddComponent.
type ComponentInfo struct {
	Name string
	Type string
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	components      []ComponentInfo
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		components:  make([]ComponentInfo, 0),
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackComponent records the name and registry key of a component.
func (s *Summary) TrackComponent(name, typeName string) {
	s.components = append(s.components, ComponentInfo{Name: name, Type: typeName})
}

// Components returns the tracked components in registration order.
func (s *Summary) Components() []ComponentInfo {
	return s.components
}

// Write prints the summary to w: registered types, tracked components and
// live component health. Either registry may be nil.
func (s *Summary) Write(w io.Writer, reg *di.Registry, components *component.Registry) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🚀 %s v%s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if reg != nil {
		keys := reg.Keys()
		fmt.Fprintf(w, "\n📦 Registry %s (%d)\n", reg.ID(), len(keys))
		if len(keys) == 0 {
			fmt.Fprintf(w, "   └── No types registered\n")
		}
		for i, k := range keys {
			fmt.Fprintf(w, "   %s %s\n", treePrefix(i, len(keys)), k)
		}
	}

	if len(s.components) > 0 {
		fmt.Fprintf(w, "\n⚙️  Components\n")
		for i, c := range s.components {
			fmt.Fprintf(w, "   %s %s [%s]\n", treePrefix(i, len(s.components)), c.Name, c.Type)
		}
	}

	if components != nil {
		results := components.HealthAll(context.Background())
		if len(results) > 0 {
			healthy := 0
			fmt.Fprintf(w, "\n🏥 Health Check\n")
			for i, h := range results {
				msg := ""
				if h.Message != "" {
					msg = " - " + h.Message
				}
				fmt.Fprintf(w, "   %s %s %s: %s%s\n",
					treePrefix(i, len(results)), healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
				if h.Status == component.StatusHealthy {
					healthy++
				}
			}
			if healthy == len(results) {
				fmt.Fprintf(w, "\n✅ All components healthy (%d/%d)\n", healthy, len(results))
			} else {
				fmt.Fprintf(w, "\n⚠️  Some components have issues (%d/%d healthy)\n", healthy, len(results))
			}
		}
	}

	fmt.Fprintf(w, "\n")
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
