package gamefsm

import (
	"fmt"

	"github.com/enetx/g"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Registry maps the state_class names used in configuration documents to
// handler factories.
type Registry[O any] map[string]Factory[O]

// Config is a decoded configuration document, ready for Machine.Apply.
type Config[O any] struct {
	Initial State
	Cache   bool
	States  g.Map[State, Definition[O]]
}

// Apply configures the machine from cfg.
func (m *Machine[O]) Apply(cfg *Config[O]) *Machine[O] {
	return m.Cache(cfg.Cache).Configure(cfg.Initial, cfg.States)
}

// LoadYAML decodes a YAML configuration document:
//
//	initial: idle
//	cache: true
//	states:
//	  idle: { next_state: walk, state_class: idle }
//	  walk: { transitions: { jump: jump, stop: idle }, state_class: walk }
//	  jump: { state_class: jump }
//
// states may also be a plain list of ids. Suspicious keys are logged as
// warnings on logger, which may be nil.
func LoadYAML[O any](data []byte, reg Registry[O], logger *zap.Logger) (*Config[O], error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ErrConfig{Reason: "decode yaml", Err: err}
	}

	return ParseConfig(raw, reg, logger)
}

// LoadJSON decodes a JSON document with the same layout as LoadYAML.
func LoadJSON[O any](data []byte, reg Registry[O], logger *zap.Logger) (*Config[O], error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ErrConfig{Reason: "decode json", Err: err}
	}

	return ParseConfig(raw, reg, logger)
}

// ParseConfig builds a Config from an already decoded document.
func ParseConfig[O any](raw map[string]any, reg Registry[O], logger *zap.Logger) (*Config[O], error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := &Config[O]{States: make(g.Map[State, Definition[O]])}

	for key := range raw {
		switch key {
		case "initial", "cache", "states":
		default:
			logger.Warn("unknown config key ignored", zap.String("key", key))
		}
	}

	initial, ok := raw["initial"]
	if !ok || initial == nil {
		return nil, &ErrConfig{Path: "initial", Reason: "missing initial state"}
	}

	cfg.Initial = asState(initial)

	if c, ok := raw["cache"]; ok {
		enabled, ok := c.(bool)
		if !ok {
			return nil, &ErrConfig{Path: "cache", Reason: fmt.Sprintf("expected bool, got %T", c)}
		}

		cfg.Cache = enabled
	}

	switch states := raw["states"].(type) {
	case nil:
		return nil, &ErrConfig{Path: "states", Reason: "no states defined"}
	case []any:
		for i, id := range states {
			if id == nil {
				return nil, &ErrConfig{Path: fmt.Sprintf("states[%d]", i), Reason: "null state id"}
			}

			cfg.States[asState(id)] = Definition[O]{}
		}
	default:
		table, ok := asMap(states)
		if !ok {
			return nil, &ErrConfig{Path: "states", Reason: fmt.Sprintf("expected list or mapping, got %T", states)}
		}

		for id, value := range table {
			def, err := parseDefinition(id, value, reg, logger)
			if err != nil {
				return nil, err
			}

			cfg.States[State(id)] = def
		}
	}

	return cfg, nil
}

func parseDefinition[O any](id string, value any, reg Registry[O], logger *zap.Logger) (Definition[O], error) {
	var def Definition[O]

	if value == nil {
		return def, nil
	}

	path := "states." + id

	fields, ok := asMap(value)
	if !ok {
		return def, &ErrConfig{Path: path, Reason: fmt.Sprintf("expected mapping, got %T", value)}
	}

	for key, v := range fields {
		// A null value means the key is absent.
		if v == nil && key != "transition" {
			continue
		}

		switch key {
		case "next_state":
			def.Next = asState(v)
		case "transitions":
			table, ok := asMap(v)
			if !ok {
				return def, &ErrConfig{Path: path + ".transitions", Reason: fmt.Sprintf("expected mapping, got %T", v)}
			}

			def.Transitions = make(g.Map[Event, State], len(table))
			for k, to := range table {
				if to != nil {
					def.Transitions[Event(k)] = asState(to)
				}
			}
		case "state_class":
			name := fmt.Sprint(v)

			factory, ok := reg[name]
			if !ok {
				return def, &ErrConfig{Path: path + ".state_class", Reason: fmt.Sprintf("unknown state class %q", name)}
			}

			def.Factory = factory
		case "transition":
			logger.Warn("config key \"transition\" is not used, did you mean \"transitions\"?", zap.String("state", id))
		default:
			logger.Warn("unknown state key ignored", zap.String("state", id), zap.String("key", key))
		}
	}

	return def, nil
}

// asMap accepts both string-keyed mappings and the interface-keyed ones
// produced for YAML mappings with non-string keys.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}

		return out, true
	default:
		return nil, false
	}
}

// asState turns a scalar id, string or numeric, into a State. Null maps to
// the empty State.
func asState(v any) State {
	if v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return State(s)
	}

	return State(fmt.Sprint(v))
}
