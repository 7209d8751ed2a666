package source

import (
	"fmt"
	"os"
	"regexp"

	"github.com/kmaier/prephoops/internal/bracket"
	"gopkg.in/yaml.v3"
)

// Division is one division's bracket page within a source.
type Division struct {
	Number     int    `yaml:"number"`
	Sectionals []int  `yaml:"sectionals,omitempty"`
	URL        string `yaml:"url,omitempty"` // overrides the source URL template
}

// Round overrides one round-name pattern. Order in the list is tournament
// progression order.
type Round struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// Definition declares one source in the registry. New states are YAML
// entries, not new code.
type Definition struct {
	Name        string     `yaml:"name"`
	League      string     `yaml:"league"`    // label prefix, e.g. "WIAA"
	Namespace   string     `yaml:"namespace"` // canonicalization namespace
	Gender      string     `yaml:"gender"`
	Year        int        `yaml:"year"`
	URLTemplate string     `yaml:"url_template,omitempty"` // printf verb receives the division number
	Divisions   []Division `yaml:"divisions"`
	Rounds      []Round    `yaml:"rounds,omitempty"` // empty means the default round set
	MinScore    int        `yaml:"min_score,omitempty"`
	MaxScore    int        `yaml:"max_score,omitempty"`
}

func (d *Definition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	if d.Year == 0 {
		return fmt.Errorf("year is required")
	}
	if len(d.Divisions) == 0 {
		return fmt.Errorf("at least one division is required")
	}
	for _, div := range d.Divisions {
		if div.URL == "" && d.URLTemplate == "" {
			return fmt.Errorf("division %d has no URL and no url_template is set", div.Number)
		}
	}
	return nil
}

// compileRounds turns the declared round patterns into the parser's form.
// A nil return with nil error means "use the default round set".
func (d *Definition) compileRounds() ([]bracket.RoundPattern, error) {
	if len(d.Rounds) == 0 {
		return nil, nil
	}

	rounds := make([]bracket.RoundPattern, 0, len(d.Rounds))
	for _, r := range d.Rounds {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("round %q: bad pattern: %w", r.Name, err)
		}
		rounds = append(rounds, bracket.RoundPattern{Name: r.Name, Pattern: re})
	}
	return rounds, nil
}

// registryFile is the YAML shape of a registry file.
type registryFile struct {
	Sources []Definition `yaml:"sources"`
}

// Registry holds the known source definitions keyed by name.
type Registry struct {
	sources map[string]Definition
	order   []string
}

// DefaultRegistry returns the built-in registry. Wisconsin ships as the
// reference definition; everything else arrives via LoadRegistry.
func DefaultRegistry(year int) *Registry {
	wiaa := Definition{
		Name:        "wiaa",
		League:      "WIAA",
		Namespace:   "wiaa",
		Gender:      "boys",
		Year:        year,
		URLTemplate: "https://www.wiaawi.org/Sports/Boys-Basketball/Tournament/Division-%d",
		Divisions: []Division{
			{Number: 1, Sectionals: []int{1, 2, 3, 4}},
			{Number: 2, Sectionals: []int{1, 2, 3, 4}},
			{Number: 3, Sectionals: []int{1, 2, 3, 4}},
			{Number: 4, Sectionals: []int{1, 2, 3, 4}},
			{Number: 5, Sectionals: []int{1, 2, 3, 4}},
		},
	}

	r := &Registry{sources: make(map[string]Definition)}
	r.add(wiaa)
	return r
}

// LoadRegistry reads source definitions from a YAML file and merges them over
// the defaults. A file entry with a default's name replaces it.
func LoadRegistry(path string, year int) (*Registry, error) {
	r := DefaultRegistry(year)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}

	for _, def := range file.Sources {
		if def.Year == 0 {
			def.Year = year
		}
		if err := def.validate(); err != nil {
			return nil, fmt.Errorf("registry entry %q: %w", def.Name, err)
		}
		if _, err := def.compileRounds(); err != nil {
			return nil, fmt.Errorf("registry entry %q: %w", def.Name, err)
		}
		r.add(def)
	}

	return r, nil
}

func (r *Registry) add(def Definition) {
	if _, exists := r.sources[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.sources[def.Name] = def
}

// Get returns the definition for a source name.
func (r *Registry) Get(name string) (Definition, bool) {
	def, ok := r.sources[name]
	return def, ok
}

// Names returns source names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
