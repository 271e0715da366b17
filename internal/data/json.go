package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"energy-market/internal/model"
)

// LoadProfilesJSON reads a profile file of the form {"loads": [[...], ...], "pv": [...]}.
func LoadProfilesJSON(path string) (*model.DayProfiles, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p model.DayProfiles
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &p, nil
}

// SaveProfilesJSON writes p to path, creating parent directories as needed.
func SaveProfilesJSON(path string, p model.DayProfiles) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
