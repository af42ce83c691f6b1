package seed

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/default.yml
var defaultFixture []byte

// Fixture is a fixed set of demo rows. Posts name their owner by username.
type Fixture struct {
	Users []FixtureUser `yaml:"users"`
	Posts []FixturePost `yaml:"posts"`
}

// FixtureUser is one Users row.
type FixtureUser struct {
	Username    string  `yaml:"username"`
	Password    string  `yaml:"password"`
	Description string  `yaml:"description"`
	Pfp         *string `yaml:"pfp"`
}

// FixturePost is one Posts row.
type FixturePost struct {
	Title   string  `yaml:"title"`
	Content *string `yaml:"content"`
	Date    string  `yaml:"date"`
	Author  string  `yaml:"author"`
}

// DefaultFixture returns the built-in fixture: the admin user and its post.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixture reads a YAML fixture from path.
func LoadFixture(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes and validates a YAML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Validate checks required fields. Authors are resolved against the store when
// the fixture is applied, so they may name users that already exist.
func (f *Fixture) Validate() error {
	known := make(map[string]bool, len(f.Users))
	for i, u := range f.Users {
		if u.Username == "" {
			return fmt.Errorf("fixture user %d: username is required", i)
		}
		if known[u.Username] {
			return fmt.Errorf("fixture user %q declared twice", u.Username)
		}
		known[u.Username] = true
	}
	for i, p := range f.Posts {
		if p.Title == "" || p.Date == "" {
			return fmt.Errorf("fixture post %d: title and date are required", i)
		}
		if p.Author == "" {
			return fmt.Errorf("fixture post %q: author is required", p.Title)
		}
	}
	return nil
}
