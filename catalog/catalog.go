package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed foods.yaml
var defaultData []byte

// fuzzyThreshold is the minimum similarity a fuzzy match has to exceed.
const fuzzyThreshold = 0.6

// Entry is a food with its calorie density.
type Entry struct {
	Key      string  `yaml:"key"`
	Name     string  `yaml:"name"`
	Calories float64 `yaml:"calories"` // kcal per 100 g
}

// Catalog is an ordered, read-only table of foods keyed by normalized name.
// Iteration order is the order entries were supplied in, which makes fuzzy
// matches deterministic.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// New builds a catalog from entries, keeping their order.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		key := Normalize(e.Key)
		if key == "" {
			return nil, fmt.Errorf("entry %d: empty key", i)
		}
		if _, dup := c.index[key]; dup {
			return nil, fmt.Errorf("entry %d: duplicate key %q", i, key)
		}
		if e.Calories < 0 || math.IsNaN(e.Calories) || math.IsInf(e.Calories, 0) {
			return nil, fmt.Errorf("entry %q: invalid calories %v", key, e.Calories)
		}
		if strings.TrimSpace(e.Name) == "" {
			e.Name = e.Key
		}
		e.Key = key
		c.index[key] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	return c, nil
}

// Parse decodes a YAML (or JSON) list of entries into a catalog.
func Parse(data []byte) (*Catalog, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("parse catalog: no entries")
	}
	return New(entries)
}

// Default returns the bundled dataset.
func Default() *Catalog {
	c, err := Parse(defaultData)
	if err != nil {
		panic(fmt.Sprintf("catalog: bundled dataset is invalid: %v", err))
	}
	return c
}

// Normalize lowercases and trims a food name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Lookup finds an entry by exact normalized key.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	i, ok := c.index[Normalize(name)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Fuzzy finds the closest entry to name.
//
// Entries are visited in catalog order. If a key is a substring of the input
// (or the input a substring of the key) that entry is returned right away with
// its similarity score. Otherwise the entry with the highest similarity wins,
// first one on ties, but only when the score exceeds 0.6.
func (c *Catalog) Fuzzy(name string) (Entry, float64, bool) {
	query := Normalize(name)
	if query == "" {
		return Entry{}, 0, false
	}

	q := []rune(query)
	best, bestScore := -1, 0.0

	for i, e := range c.entries {
		score := Similarity(q, []rune(e.Key))
		if score > bestScore {
			best, bestScore = i, score
		}

		if strings.Contains(query, e.Key) || strings.Contains(e.Key, query) {
			return e, score, true
		}
	}

	if best >= 0 && bestScore > fuzzyThreshold {
		return c.entries[best], bestScore, true
	}
	return Entry{}, bestScore, false
}
