package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"tournament-settlement-system/settlement"
)

// LoadPolicy overlays the YAML file at path onto the default policy and validates the
// result. An empty path returns the defaults.
func LoadPolicy(path string) (settlement.Policy, error) {
	policy := settlement.DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settlement.Policy{}, fmt.Errorf("read tax policy %s: %w", path, err)
	}
	if err := ParsePolicy(data, &policy); err != nil {
		return settlement.Policy{}, fmt.Errorf("tax policy %s: %w", path, err)
	}
	return policy, nil
}

// ParsePolicy decodes YAML into policy; keys absent from the document keep their value.
// Unknown keys are an error.
func ParsePolicy(data []byte, policy *settlement.Policy) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(policy); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode: %w", err)
	}
	return policy.Validate()
}
