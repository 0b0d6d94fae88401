// Package scenario replays YAML-described editing sessions against a diagram
// and records one trace line per step.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/canvas/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Scenario is a named sequence of editing steps on one diagram.
type Scenario struct {
	// Name identifies the scenario and names the diagram it creates.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	// Diagram selects the diagram type (default: ClassDiagram).
	Diagram domain.DiagramType `yaml:"diagram,omitempty"`

	Steps []Step `yaml:"steps"`

	// Expect is checked against the final snapshot.
	Expect *Expectation `yaml:"expect,omitempty"`
}

// Step is one action, a history move, or a connect gesture.
// Exactly one of the action type, Undo, Redo and Connect is set.
type Step struct {
	domain.Action `yaml:",inline"`

	Undo    bool     `yaml:"undo,omitempty"`
	Redo    bool     `yaml:"redo,omitempty"`
	Connect *Connect `yaml:"connect,omitempty"`

	// Error, when set, expects the step to fail with a message containing it.
	Error string `yaml:"error,omitempty"`
}

// Connect drags a relationship from one port to another.
type Connect struct {
	From domain.Port `yaml:"from"`
	To   domain.Port `yaml:"to"`
}

// Expectation lists properties of the final snapshot.
type Expectation struct {
	IDs       []string `yaml:"ids,omitempty"`
	Selection []string `yaml:"selection,omitempty"`
}

// Load reads and parses a scenario YAML file.
// Unknown fields are rejected to catch typos.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// LoadDir loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := Load(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := s.normalize(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func (s *Scenario) normalize() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch s.Diagram {
	case "":
		s.Diagram = domain.ClassDiagram
	case domain.ClassDiagram, domain.ActivityDiagram:
	default:
		return fmt.Errorf("unknown diagram type %q", s.Diagram)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i := range s.Steps {
		step := &s.Steps[i]
		set := 0
		for _, b := range []bool{step.Type != "", step.Undo, step.Redo, step.Connect != nil} {
			if b {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("steps[%d]: exactly one of type, undo, redo, connect is required", i)
		}
		if step.Type == "" {
			continue
		}

		t, err := domain.ParseActionType(string(step.Type))
		if err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		step.Type = t
		if el := step.Element; el != nil {
			if el.Bounds.Width == 0 && el.Bounds.Height == 0 {
				size := domain.CapabilitiesOf(el.Kind).DefaultSize
				el.Bounds.Width, el.Bounds.Height = size.Width, size.Height
			}
			if el.Kind != "" && !el.Kind.IsKnown() {
				return fmt.Errorf("steps[%d]: unknown kind %q", i, el.Kind)
			}
		}
	}
	return nil
}

// String describes the step as it appears in a trace.
func (st Step) String() string {
	switch {
	case st.Undo:
		return "UNDO"
	case st.Redo:
		return "REDO"
	case st.Connect != nil:
		return fmt.Sprintf("CONNECT %s.%s -> %s.%s",
			st.Connect.From.Element, st.Connect.From.Direction,
			st.Connect.To.Element, st.Connect.To.Direction)
	}
	return st.Action.String()
}

// Trace is the outcome of a replay.
type Trace struct {
	Name  string
	Lines []string
	Final *domain.State
}

// String renders the trace, one step per line.
func (t *Trace) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", t.Name)
	for _, l := range t.Lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatDiff renders a snapshot diff as "+added -removed ~changed" tokens.
func FormatDiff(d *domain.StateDiff) string {
	if d.IsEmpty() {
		return "no change"
	}
	var parts []string
	for _, id := range d.Added {
		parts = append(parts, "+"+id)
	}
	for _, id := range d.Removed {
		parts = append(parts, "-"+id)
	}
	for _, id := range d.Changed {
		parts = append(parts, "~"+id)
	}
	return strings.Join(parts, " ")
}
