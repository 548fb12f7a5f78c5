package conformance

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a YAML conformance fixture file. It supports
// multiple scenario documents separated by "---", the same
// yaml.NewDecoder/KnownFields(true) strict-mode loop the teacher's
// pkg/testspec.Load uses for its own multi-document test files.
func Load(filename string) ([]Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading conformance file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var scenarios []Scenario
	docNum := 0
	for {
		var s Scenario
		err := decoder.Decode(&s)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing scenario document %d: %w", docNum+1, err)
		}
		docNum++

		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %d: %w", docNum, err)
		}
		s.ApplyDefaults()

		scenarios = append(scenarios, s)
	}

	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", filename)
	}

	return scenarios, nil
}
