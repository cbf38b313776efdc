package fixtures

import (
	"fmt"
	"io"
	"os"

	"github.com/cmlabs-hris/hris-shift-engine/internal/domain/shift"
	"gopkg.in/yaml.v3"
)

const patternFileVersion = 1

// PatternFile is the on-disk format for seeding shift patterns.
//
//	version: 1
//	patterns:
//	  - name: Standard Office Hours
//	    type: FIXED_WEEKLY
//	    days:
//	      - {day_number: 1, day_type: FULL_DAY, start_time: "08:00", end_time: "17:00"}
type PatternFile struct {
	Version  int                         `yaml:"version"`
	Patterns []shift.ShiftPatternPayload `yaml:"patterns"`
}

// LoadPatternsFile reads patterns from a YAML file on disk.
func LoadPatternsFile(path string) ([]shift.ShiftPattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pattern file: %w", err)
	}
	defer f.Close()

	patterns, err := LoadPatternsYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return patterns, nil
}

// LoadPatternsYAML decodes a pattern file. Unknown fields are rejected.
func LoadPatternsYAML(r io.Reader) ([]shift.ShiftPattern, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var pf PatternFile
	if err := dec.Decode(&pf); err != nil {
		return nil, fmt.Errorf("parse pattern file: %w", err)
	}
	if pf.Version != patternFileVersion {
		return nil, fmt.Errorf("unsupported pattern file version %d", pf.Version)
	}
	if len(pf.Patterns) == 0 {
		return nil, fmt.Errorf("pattern file has no patterns")
	}

	patterns := make([]shift.ShiftPattern, 0, len(pf.Patterns))
	for i, p := range pf.Patterns {
		pattern, err := p.ToEntity()
		if err != nil {
			return nil, fmt.Errorf("patterns[%d] %q: %w", i, p.Name, err)
		}
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}
