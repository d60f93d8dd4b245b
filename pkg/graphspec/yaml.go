package graphspec

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML graph spec. The document is first unmarshaled into
// a generic map and then decoded through mapstructure, so unknown keys are
// reported instead of silently dropped.
func Parse(data []byte) (*Spec, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	var spec Spec
	var meta mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		Metadata:         &meta,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid graph spec: %w", err)
	}
	if len(meta.Unused) > 0 {
		return nil, fmt.Errorf("unknown keys in graph spec: %v", meta.Unused)
	}
	return &spec, nil
}

// LoadFile reads and parses a YAML graph spec from disk.
func LoadFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec %s: %w", path, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("spec %s: %w", path, err)
	}
	return spec, nil
}
