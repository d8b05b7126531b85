package prompts

import (
	"encoding/json"
	"slices"
)

// Stage names a workflow step whose model instructions can be overridden.
type Stage string

const (
	// StageExtract turns invoice text into a structured record.
	StageExtract Stage = "extract"
	// StageTranscribe reads page images of a scanned invoice into text.
	StageTranscribe Stage = "transcribe"
)

var stages = []Stage{StageExtract, StageTranscribe}

// Stages returns every known stage.
func Stages() []Stage {
	return slices.Clone(stages)
}

// ParseStage returns ErrInvalidStage for unknown values.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
