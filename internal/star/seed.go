package star

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed defaults.json
var defaultSeed []byte

// seedFile is the JSON layout of a star seed file.
type seedFile struct {
	Stars []Record `json:"stars"`
}

// LoadSeed parses a star seed from JSON bytes. Records without an id or
// text are rejected; reading fields are normalized.
func LoadSeed(data []byte) ([]Record, error) {
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse star seed: %w", err)
	}
	out := make([]Record, 0, len(seed.Stars))
	for i, rec := range seed.Stars {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("seed star %d: %w", i, err)
		}
		out = append(out, rec.Normalize())
	}
	return out, nil
}

// Defaults returns the built-in stars shown before anyone has submitted.
func Defaults() []Record {
	recs, err := LoadSeed(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("embedded star seed: %v", err))
	}
	return recs
}
