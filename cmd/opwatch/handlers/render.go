package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"sigs.k8s.io/yaml"

	"github.com/imamik/opwatch/internal/health"
)

// Format selects how results are printed.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

// render prints h in the requested format.
func render(out io.Writer, h health.ClusterHealth, format Format) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(h, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal health status: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(h)
		if err != nil {
			return fmt.Errorf("failed to marshal health status: %w", err)
		}
		_, err = out.Write(data)
		return err
	default:
		_, err := io.WriteString(out, renderTable(out, h))
		return err
	}
}

// renderTable formats h for a terminal. Colors are only emitted when out
// supports them.
func renderTable(out io.Writer, h health.ClusterHealth) string {
	r := lipgloss.NewRenderer(out)
	title := r.NewStyle().Bold(true).Foreground(colorWhite)
	dim := r.NewStyle().Foreground(colorDim)
	name := r.NewStyle().Width(longestName(h.Nodes) + 2)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", title.Render("Cluster "+h.Name), statusStyle(r, string(h.Status)).Render(string(h.Status)))
	b.WriteString(dim.Render(strings.Repeat("─", 40)) + "\n")

	if len(h.Nodes) == 0 {
		b.WriteString(dim.Render("  no node observations") + "\n")
		return b.String()
	}
	for _, n := range h.Nodes {
		fmt.Fprintf(&b, "  %s %s %s\n",
			indicator(n.Status),
			name.Render(n.Name),
			statusStyle(r, string(n.Status)).Render(string(n.Status)))
		for _, issue := range n.Issues {
			fmt.Fprintf(&b, "      %s\n", dim.Render(issue))
		}
	}
	return b.String()
}

func statusStyle(r *lipgloss.Renderer, status string) lipgloss.Style {
	switch status {
	case string(health.StatusAvailable), string(health.InstanceCreated):
		return r.NewStyle().Foreground(colorGreen)
	case string(health.StatusUnhealthy), string(health.StatusUnreachable), string(health.InstanceFailed):
		return r.NewStyle().Foreground(colorRed)
	default:
		return r.NewStyle().Foreground(colorYellow)
	}
}

func indicator(s health.InstanceStatus) string {
	switch s {
	case health.InstanceCreated:
		return "✓"
	case health.InstanceUnhealthy, health.InstanceUnreachable, health.InstanceFailed:
		return "✗"
	default:
		return "○"
	}
}

func longestName(nodes []health.NodeHealth) int {
	n := 0
	for _, node := range nodes {
		if len(node.Name) > n {
			n = len(node.Name)
		}
	}
	return n
}

func interactive(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
