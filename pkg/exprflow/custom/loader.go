package custom

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sysmuse/exprflow/pkg/exprflow/parse"
	"github.com/sysmuse/exprflow/pkg/exprflow/value"
)

// defDoc is the wire form of a Definition, shared by the JSON and YAML
// decoders. Parameters, state, and steps are lists so declaration
// order survives decoding.
type defDoc struct {
	Name   string     `json:"name" yaml:"name"`
	Result string     `json:"result" yaml:"result"`
	Params []paramDoc `json:"params" yaml:"params"`
	State  []stateDoc `json:"state" yaml:"state"`
	Steps  []stepDoc  `json:"steps" yaml:"steps"`
}

type paramDoc struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

type stateDoc struct {
	Name    string `json:"name" yaml:"name"`
	Default any    `json:"default" yaml:"default"`
	Type    string `json:"type" yaml:"type"`
}

type stepDoc struct {
	Output string `json:"output" yaml:"output"`
	Expr   string `json:"expression" yaml:"expression"`
	Mode   string `json:"mode" yaml:"mode"`
}

// FromJSON decodes a declarative composite-operation definition from
// JSON bytes.
func FromJSON(data []byte) (Definition, error) {
	var doc defDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Definition{}, fmt.Errorf("decode definition: %w", err)
	}
	return doc.build()
}

// FromYAML decodes a declarative composite-operation definition from
// YAML bytes.
func FromYAML(data []byte) (Definition, error) {
	var doc defDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Definition{}, fmt.Errorf("decode definition: %w", err)
	}
	return doc.build()
}

func (d defDoc) build() (Definition, error) {
	result, err := kindFromName(d.Result)
	if err != nil {
		return Definition{}, fmt.Errorf("definition %s: result: %w", d.Name, err)
	}

	def := Definition{Name: d.Name, ResultKind: result}

	for _, p := range d.Params {
		kind, err := kindFromName(p.Type)
		if err != nil {
			return Definition{}, fmt.Errorf("definition %s: param %s: %w", d.Name, p.Name, err)
		}
		def.Params = append(def.Params, Param{Name: p.Name, Kind: kind})
	}

	for _, s := range d.State {
		sv := StateVar{Name: s.Name, Default: value.Of(s.Default)}
		if s.Type != "" {
			kind, err := kindFromName(s.Type)
			if err != nil {
				return Definition{}, fmt.Errorf("definition %s: state %s: %w", d.Name, s.Name, err)
			}
			sv.Kind = kind
		}
		// JSON decodes every number as float64; fold integral
		// defaults back to integers when the declared type asks.
		if sv.Kind == value.KindInt {
			if f, ok := sv.Default.AsFloat(); ok && f == float64(int64(f)) {
				sv.Default = value.Int(int64(f))
			}
		}
		def.State = append(def.State, sv)
	}

	for i, s := range d.Steps {
		mode := parse.ModeCall
		if s.Mode != "" {
			mode, err = parse.ParseMode(s.Mode)
			if err != nil {
				return Definition{}, fmt.Errorf("definition %s: step %d: %w", d.Name, i, err)
			}
		}
		def.Steps = append(def.Steps, Step{Output: s.Output, Expr: s.Expr, Mode: mode})
	}

	return def, nil
}

// kindFromName maps a declared type name to a Kind. Both Go-style
// spellings and the legacy capitalized spellings are accepted.
func kindFromName(name string) (value.Kind, error) {
	switch name {
	case "bool", "boolean", "Boolean":
		return value.KindBool, nil
	case "int", "integer", "Integer", "Long":
		return value.KindInt, nil
	case "float", "double", "number", "Float", "Double":
		return value.KindFloat, nil
	case "string", "String":
		return value.KindString, nil
	default:
		return value.KindAbsent, fmt.Errorf("unsupported type name: %q", name)
	}
}
