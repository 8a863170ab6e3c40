package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RosterSeed is one entry of the optional roster file registered at startup.
type RosterSeed struct {
	PlayerID   string `yaml:"player_id"`
	PlayerName string `yaml:"player_name"`
}

type rosterFile struct {
	Players []RosterSeed `yaml:"players"`
}

func LoadRoster(path string) ([]RosterSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}

	for i, p := range f.Players {
		if p.PlayerID == "" || p.PlayerName == "" {
			return nil, fmt.Errorf("roster entry %d is missing player_id or player_name", i)
		}
	}
	return f.Players, nil
}
