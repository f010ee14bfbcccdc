// Package rules holds the label catalog: which labels exist, which keywords
// propose them, which label pairs must never coexist and the canned replies.
package rules

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danielolaszy/issuebot/internal/logging"
	yaml "gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// ReplyMissingPythonHeaders is the reply key posted when Python.h is missing.
const ReplyMissingPythonHeaders = "missingPythonHeaders"

// Label is a catalog entry. Keywords may be empty for labels that are only
// proposed by template fields (e.g. "new-api").
type Label struct {
	Name        string   `yaml:"name"`
	Group       string   `yaml:"group,omitempty"`
	Color       string   `yaml:"color,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
}

// Pair is an illogical label pair: Left is never added when Right is present.
type Pair struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// ScriptsSpec describes how the scripts directory extends a label's keywords.
type ScriptsSpec struct {
	Label     string `yaml:"label"`
	Extension string `yaml:"extension"`
}

// Catalog is the complete rule set loaded at start-up.
type Catalog struct {
	Labels         []Label           `yaml:"labels"`
	IllogicalPairs []Pair            `yaml:"illogicalPairs"`
	Scripts        ScriptsSpec       `yaml:"scripts"`
	Replies        map[string]string `yaml:"replies"`
}

// Match records that Keyword was found in a text and proposes Label.
type Match struct {
	Label   string
	Keyword string
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file: %w", err)
	}
	defer f.Close()

	catalog, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}

// Load decodes and validates a catalog. Unknown fields are rejected so that a
// typo in the rules file does not silently disable a rule.
func Load(r io.Reader) (*Catalog, error) {
	var catalog Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}

	if err := catalog.validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (c *Catalog) validate() error {
	if len(c.Labels) == 0 {
		return errors.New("rules define no labels")
	}

	seen := make(map[string]bool, len(c.Labels))
	for _, label := range c.Labels {
		if label.Name == "" {
			return errors.New("label without a name")
		}
		if seen[label.Name] {
			return fmt.Errorf("label %q defined twice", label.Name)
		}
		seen[label.Name] = true
	}

	for _, pair := range c.IllogicalPairs {
		if !seen[pair.Left] || !seen[pair.Right] {
			return fmt.Errorf("illogical pair (%s, %s) names an unknown label", pair.Left, pair.Right)
		}
	}

	if c.Scripts.Label != "" && !seen[c.Scripts.Label] {
		return fmt.Errorf("scripts label %q is not defined", c.Scripts.Label)
	}

	if c.Replies[ReplyMissingPythonHeaders] == "" {
		return fmt.Errorf("reply %q is not defined", ReplyMissingPythonHeaders)
	}

	return nil
}

// AddScripts folds the names of the files in dir that end with the configured
// extension into the scripts label keywords. A missing directory is not an error:
// the bot may run outside a checkout of the repository.
func (c *Catalog) AddScripts(dir string) error {
	if c.Scripts.Label == "" || dir == "" {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Warn("scripts directory not found, skipping", "dir", dir)
			return nil
		}
		return fmt.Errorf("failed to read scripts directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == c.Scripts.Extension {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for i := range c.Labels {
		if c.Labels[i].Name == c.Scripts.Label {
			c.Labels[i].Keywords = append(c.Labels[i].Keywords, names...)
		}
	}

	logging.Debug("added script names to label keywords",
		"label", c.Scripts.Label,
		"dir", dir,
		"count", len(names))
	return nil
}

// Guess returns every (label, keyword) pair whose keyword occurs in text,
// ignoring case, in catalog order.
func (c *Catalog) Guess(text string) []Match {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var matches []Match
	for _, label := range c.Labels {
		for _, keyword := range label.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				matches = append(matches, Match{Label: label.Name, Keyword: keyword})
			}
		}
	}
	return matches
}

// Lookup returns the catalog entry for name.
func (c *Catalog) Lookup(name string) (Label, bool) {
	for _, label := range c.Labels {
		if label.Name == name {
			return label, true
		}
	}
	return Label{}, false
}

// Conflict returns the illogical pair that forbids adding label given the
// labels already present according to has.
func (c *Catalog) Conflict(label string, has func(string) bool) (Pair, bool) {
	for _, pair := range c.IllogicalPairs {
		if label == pair.Left && has(pair.Right) {
			return pair, true
		}
	}
	return Pair{}, false
}

// Group returns the names of the labels in group, in catalog order.
func (c *Catalog) Group(group string) []string {
	var names []string
	for _, label := range c.Labels {
		if label.Group == group {
			names = append(names, label.Name)
		}
	}
	return names
}

// Reply returns the canned reply registered under key.
func (c *Catalog) Reply(key string) string {
	return c.Replies[key]
}
