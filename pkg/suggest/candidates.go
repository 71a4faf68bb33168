package suggest

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Candidates holds every suggestion stored under one dictionary key.
//
// When decoded, a key may carry a plain string (simple mode, no help text), a
// {"value", "help_text"} object (translation mode) or an array mixing both.
// Objects without a string value and any other shapes are ignored.
type Candidates []Entry

// UnmarshalJSON accepts the string, object and array shapes.
func (c *Candidates) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("suggest: decode candidates: %w", err)
	}
	*c = collectCandidates(nil, raw)
	return nil
}

// UnmarshalYAML accepts the string, mapping and sequence shapes.
func (c *Candidates) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("suggest: decode candidates: %w", err)
	}
	*c = collectCandidates(nil, raw)
	return nil
}

// MarshalJSON writes a single candidate as an object and several as an array.
func (c Candidates) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]Entry(c))
}

func collectCandidates(out Candidates, raw any) Candidates {
	switch value := raw.(type) {
	case string:
		return append(out, Entry{Value: value})
	case []any:
		for _, item := range value {
			out = collectCandidates(out, item)
		}
		return out
	case map[string]any:
		text, ok := value["value"].(string)
		if !ok {
			return out
		}
		help, _ := value["help_text"].(string)
		return append(out, Entry{Value: text, HelpText: help})
	default:
		return out
	}
}

// DecodeJSON decodes a dictionary payload in any of the accepted shapes.
func DecodeJSON(data []byte) (map[string]Candidates, error) {
	var out map[string]Candidates
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("suggest: decode dictionary: %w", err)
	}
	return out, nil
}

// DecodeYAML is the YAML counterpart of DecodeJSON.
func DecodeYAML(data []byte) (map[string]Candidates, error) {
	var out map[string]Candidates
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("suggest: decode dictionary: %w", err)
	}
	return out, nil
}
