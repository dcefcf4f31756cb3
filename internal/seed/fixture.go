// Package seed loads YAML fixtures of mythological records into the admin
// store.
package seed

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// DefaultFixture names the embedded fixture used when no file is given.
const DefaultFixture = "fixtures/mythology.yaml"

// Fixture is one seed document. Records reference each other by name.
type Fixture struct {
	Categories []string         `yaml:"categories"`
	Origins    []string         `yaml:"origins"`
	Heroes     []HeroFixture    `yaml:"heroes"`
	Villains   []VillainFixture `yaml:"villains"`
	Epics      []EpicFixture    `yaml:"epics"`
}

// EntityFixture holds the fields heroes and villains share.
type EntityFixture struct {
	Name        string `yaml:"name"`
	Gender      string `yaml:"gender"`
	Category    string `yaml:"category"`
	Origin      string `yaml:"origin"`
	Description string `yaml:"description"`
	Immortal    bool   `yaml:"immortal"`
}

// HeroFixture describes a hero with its family and acquaintances.
type HeroFixture struct {
	EntityFixture `yaml:",inline"`
	Benevolence   *int     `yaml:"benevolence"`
	Arbitrariness *int     `yaml:"arbitrariness"`
	Father        string   `yaml:"father"`
	Mother        string   `yaml:"mother"`
	Spouse        string   `yaml:"spouse"`
	Friends       []string `yaml:"friends"`
	Detractors    []string `yaml:"detractors"`
	Antagonists   []string `yaml:"antagonists"`
}

// VillainFixture describes a villain. Unique defaults to true and Count to 1.
type VillainFixture struct {
	EntityFixture `yaml:",inline"`
	Malevolence   int   `yaml:"malevolence"`
	Power         int   `yaml:"power"`
	Unique        *bool `yaml:"unique"`
	Count         int   `yaml:"count"`
}

// EpicFixture describes an epic, its participants and its events.
type EpicFixture struct {
	Name     string         `yaml:"name"`
	Heroes   []string       `yaml:"heroes"`
	Villains []string       `yaml:"villains"`
	Events   []EventFixture `yaml:"events"`
}

// EventFixture describes one event of an epic.
type EventFixture struct {
	Details  string        `yaml:"details"`
	YearsAgo int           `yaml:"years_ago"`
	Heroes   []LinkFixture `yaml:"heroes"`
	Villains []LinkFixture `yaml:"villains"`
}

// LinkFixture ties a named hero or villain to an event.
type LinkFixture struct {
	Name    string `yaml:"name"`
	Primary bool   `yaml:"primary"`
}

// LoadFile reads a fixture from disk. An empty path loads the embedded default.
func LoadFile(path string) (Fixture, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = fixtureFS.ReadFile(DefaultFixture)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes a single YAML document, rejecting unknown fields.
func Parse(data []byte) (Fixture, error) {
	var fixture Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fixture); err != nil {
		if errors.Is(err, io.EOF) {
			return Fixture{}, nil
		}
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); err == nil {
		return Fixture{}, errors.New("decode fixture: multiple YAML documents")
	}
	return fixture, nil
}
