package world

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlWorldFile is the top-level YAML structure for authored world files.
type yamlWorldFile struct {
	World yamlWorld `yaml:"world"`
}

// yamlWorld is the YAML representation of a starter world.
type yamlWorld struct {
	Name      string         `yaml:"name"`
	Locations []yamlLocation `yaml:"locations"`
}

// yamlLocation is the YAML representation of a location.
type yamlLocation struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Exits       []yamlExit `yaml:"exits"`
}

// yamlExit is the YAML representation of an exit.
type yamlExit struct {
	Direction   string `yaml:"direction"`
	Destination string `yaml:"destination"`
	Description string `yaml:"description"`
}

// LoadWorldFromFile reads and validates a single world YAML file.
//
// Precondition: path must point to a valid YAML world file.
// Postcondition: Returns validated locations in authored order, or a non-nil error.
func LoadWorldFromFile(path string) ([]*Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	return LoadWorldFromBytes(data)
}

// LoadWorldFromBytes parses and validates a world from YAML bytes.
// Authored order is preserved; it becomes creation order on import, which is
// what the map facade falls back to when no center is requested.
//
// Precondition: data must be valid YAML conforming to the world schema.
// Postcondition: Returns validated locations or a non-nil error.
func LoadWorldFromBytes(data []byte) ([]*Location, error) {
	var file yamlWorldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing world YAML: %w", err)
	}

	if len(file.World.Locations) == 0 {
		return nil, fmt.Errorf("world %q: must contain at least one location", file.World.Name)
	}

	locations := make([]*Location, 0, len(file.World.Locations))
	for _, yl := range file.World.Locations {
		loc := &Location{
			ID:          yl.ID,
			Name:        yl.Name,
			Description: strings.TrimSpace(yl.Description),
		}
		for _, ye := range yl.Exits {
			loc.Exits = append(loc.Exits, Exit{
				Direction:   Direction(ye.Direction).Normalize(),
				Destination: ye.Destination,
				Description: ye.Description,
			})
		}
		locations = append(locations, loc)
	}

	if err := ValidateLocations(locations); err != nil {
		return nil, fmt.Errorf("validating world: %w", err)
	}

	return locations, nil
}
