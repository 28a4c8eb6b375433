package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/msto63/fanucmacro/foundation/macro/evaluator"
	"github.com/msto63/fanucmacro/foundation/macro/variables"
	"github.com/msto63/fanucmacro/internal/session/store"
)

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorValue   = lipgloss.Color("#10B981")
	colorUnset   = lipgloss.Color("#F59E0B")
)

// Styles
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	registerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Width(8)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorValue).
			Align(lipgloss.Right).
			Width(16)

	unsetStyle = lipgloss.NewStyle().
			Foreground(colorUnset).
			Italic(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	tableStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// registerView is the structured form of one register
type registerView struct {
	Register int         `json:"register" yaml:"register"`
	Value    interface{} `json:"value" yaml:"value"`
}

// resultView is the structured form of one statement result
type resultView struct {
	Statement string      `json:"statement" yaml:"statement"`
	Kind      string      `json:"kind" yaml:"kind"`
	Register  *int        `json:"register,omitempty" yaml:"register,omitempty"`
	Value     interface{} `json:"value" yaml:"value"`
}

// snapshotView is the structured form of a saved snapshot
type snapshotView struct {
	ID        string         `json:"id" yaml:"id"`
	SessionID string         `json:"session_id" yaml:"session_id"`
	CreatedAt string         `json:"created_at" yaml:"created_at"`
	Label     string         `json:"label,omitempty" yaml:"label,omitempty"`
	Min       int            `json:"min" yaml:"min"`
	Max       int            `json:"max" yaml:"max"`
	Registers []registerView `json:"registers" yaml:"registers"`
}

// displayValue maps a value to something JSON and YAML can both encode:
// nil for unset, a string for NaN and infinities, a float64 otherwise.
func displayValue(v evaluator.Value) interface{} {
	if !v.IsSet() {
		return nil
	}
	f := v.Float()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return evaluator.FormatNumber(f)
	}
	return f
}

func registerViews(registers map[variables.Register]float64) []registerView {
	views := make([]registerView, 0, len(registers))
	for r, v := range registers {
		views = append(views, registerView{Register: int(r), Value: displayValue(evaluator.Number(v))})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Register < views[j].Register })
	return views
}

func resultViews(results []evaluator.Result) []resultView {
	views := make([]resultView, len(results))
	for i, res := range results {
		views[i] = resultView{
			Statement: res.Statement.String(),
			Kind:      res.Kind.String(),
			Value:     displayValue(res.Value),
		}
		if res.Kind != evaluator.KindValue {
			r := int(res.Register)
			views[i].Register = &r
		}
	}
	return views
}

func toSnapshotView(s *store.Snapshot) snapshotView {
	return snapshotView{
		ID:        s.ID,
		SessionID: s.SessionID,
		CreatedAt: s.CreatedAt.Format("2006-01-02 15:04:05"),
		Label:     s.Label,
		Min:       int(s.Min),
		Max:       int(s.Max),
		Registers: registerViews(s.Registers),
	}
}

// printStructured writes v as JSON or YAML and reports whether it did
func printStructured(w io.Writer, v interface{}) (bool, error) {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

// printResults writes the outcome of each statement
func printResults(w io.Writer, results []evaluator.Result) error {
	if done, err := printStructured(w, resultViews(results)); done {
		return err
	}

	for _, res := range results {
		switch res.Kind {
		case evaluator.KindAssignment:
			fmt.Fprintf(w, "%s %s\n", registerStyle.Render(fmt.Sprintf("#%d", res.Register)), formatValue(res.Value))
		case evaluator.KindNoop:
			fmt.Fprintf(w, "%s %s\n", registerStyle.Render(fmt.Sprintf("#%d", res.Register)), mutedStyle.Render("(no value)"))
		default:
			fmt.Fprintln(w, formatValue(res.Value))
		}
	}
	return nil
}

// printRegisters writes all set registers as a table
func printRegisters(w io.Writer, registers map[variables.Register]float64) error {
	views := registerViews(registers)
	if done, err := printStructured(w, views); done {
		return err
	}

	fmt.Fprintln(w, renderRegisterTable(views))
	return nil
}

// printSnapshot writes snapshot metadata and its registers
func printSnapshot(w io.Writer, s *store.Snapshot) error {
	view := toSnapshotView(s)
	if done, err := printStructured(w, view); done {
		return err
	}

	fmt.Fprintln(w, headerStyle.Render("Snapshot "+view.ID))
	fmt.Fprintf(w, "  Session:   %s\n", view.SessionID)
	fmt.Fprintf(w, "  Created:   %s\n", view.CreatedAt)
	if view.Label != "" {
		fmt.Fprintf(w, "  Label:     %s\n", view.Label)
	}
	fmt.Fprintf(w, "  Registers: #%d..#%d\n", view.Min, view.Max)
	fmt.Fprintln(w, renderRegisterTable(view.Registers))
	return nil
}

// printSnapshotList writes one line per snapshot
func printSnapshotList(w io.Writer, snapshots []*store.Snapshot) error {
	views := make([]snapshotView, len(snapshots))
	for i, s := range snapshots {
		views[i] = toSnapshotView(s)
	}
	if done, err := printStructured(w, views); done {
		return err
	}

	if len(views) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no snapshots"))
		return nil
	}

	header := lipgloss.NewStyle().Width(38).Render("ID") +
		lipgloss.NewStyle().Width(21).Render("CREATED") +
		lipgloss.NewStyle().Width(11).Render("REGISTERS") + "LABEL"
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, v := range views {
		fmt.Fprintln(w, lipgloss.NewStyle().Width(38).Render(v.ID)+
			lipgloss.NewStyle().Width(21).Render(v.CreatedAt)+
			lipgloss.NewStyle().Width(11).Render(fmt.Sprintf("%d", len(v.Registers)))+
			v.Label)
	}
	return nil
}

func renderRegisterTable(views []registerView) string {
	if len(views) == 0 {
		return mutedStyle.Render("no registers set")
	}

	lines := []string{headerStyle.Render(registerStyle.Render("REGISTER") + valueStyle.Render("VALUE"))}
	for _, v := range views {
		text := fmt.Sprintf("%v", v.Value)
		if f, ok := v.Value.(float64); ok {
			text = evaluator.FormatNumber(f)
		}
		lines = append(lines, registerStyle.Render(fmt.Sprintf("#%d", v.Register))+valueStyle.Render(text))
	}
	return tableStyle.Render(strings.Join(lines, "\n"))
}

func formatValue(v evaluator.Value) string {
	if !v.IsSet() {
		return unsetStyle.Render(v.String())
	}
	return lipgloss.NewStyle().Foreground(colorValue).Render(v.String())
}
