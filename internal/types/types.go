package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Severity is the reporting level attached to a lint rule or issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityOff:
		return "off"
	default:
		return "unknown"
	}
}

// UnmarshalYAML accepts the textual severity names used in .cqlin.yaml.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch raw {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	case "off":
		*s = SeverityOff
	default:
		return fmt.Errorf("unknown severity %q", raw)
	}
	return nil
}

// MarshalYAML renders a Severity as its textual name.
func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// ConfigRule carries the per-rule settings from the configuration file.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}

// Position is a 1-based line/column location in a source buffer.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Issue represents a single finding in a CQL source buffer.
type Issue struct {
	Rule       string
	Filename   string
	Severity   Severity
	Message    string
	Suggestion string
	Note       string
	Start      Position
	End        Position
}

// PositionAt converts a byte offset into a 1-based Position within source.
func PositionAt(source string, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Line: line, Column: col}
}
