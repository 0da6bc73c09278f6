// Package catalog provides the static, read-only catalog of attractions the
// user picks itinerary entries from.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed attractions.yaml
var defaultCatalog []byte

var (
	// ErrUnknownRegion indicates a region name that is not in the catalog.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrUnknownAttraction indicates an attraction id not in the region.
	ErrUnknownAttraction = errors.New("unknown attraction")
)

// Attraction is one point of interest.
type Attraction struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	ImageRef    string  `yaml:"image" json:"image,omitempty"`
	Latitude    float64 `yaml:"latitude" json:"latitude"`
	Longitude   float64 `yaml:"longitude" json:"longitude"`
}

// Region groups the attractions of one area.
type Region struct {
	Name        string       `yaml:"name" json:"name"`
	Color       string       `yaml:"color" json:"color,omitempty"`
	Attractions []Attraction `yaml:"attractions" json:"attractions"`
}

// Provider answers catalog queries.
type Provider interface {
	// Regions returns the region names in display order.
	Regions() []string

	// Region returns one region by name. Lookups ignore case and accept
	// "_" for a space.
	Region(name string) (Region, error)

	// Attractions returns the attractions of region.
	Attractions(region string) ([]Attraction, error)

	// Find returns one attraction of region by id.
	Find(region, id string) (Attraction, error)
}

// Catalog is a Provider backed by a parsed YAML document.
type Catalog struct {
	regions []Region
}

type document struct {
	Regions []Region `yaml:"regions"`
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file with the same layout as the
// embedded one.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks a catalog document. Region names and attraction
// ids must be unique.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seenRegion := make(map[string]bool)
	seenID := make(map[string]string)
	for _, r := range doc.Regions {
		key := normalize(r.Name)
		if key == "" {
			return nil, errors.New("catalog region without a name")
		}
		if seenRegion[key] {
			return nil, fmt.Errorf("duplicate catalog region %q", r.Name)
		}
		seenRegion[key] = true

		for _, a := range r.Attractions {
			if a.ID == "" || strings.TrimSpace(a.Name) == "" {
				return nil, fmt.Errorf("region %q: attraction needs an id and a name", r.Name)
			}
			if other, ok := seenID[a.ID]; ok {
				return nil, fmt.Errorf("attraction id %q used in %q and %q", a.ID, other, r.Name)
			}
			seenID[a.ID] = r.Name
		}
	}

	return &Catalog{regions: doc.Regions}, nil
}

// Regions returns the region names in display order.
func (c *Catalog) Regions() []string {
	names := make([]string, 0, len(c.regions))
	for _, r := range c.regions {
		names = append(names, r.Name)
	}
	return names
}

// Region returns the full region, including its display color.
func (c *Catalog) Region(name string) (Region, error) {
	key := normalize(name)
	for _, r := range c.regions {
		if normalize(r.Name) == key {
			return r, nil
		}
	}
	return Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, name)
}

// Attractions returns a copy of the attractions of region.
func (c *Catalog) Attractions(region string) ([]Attraction, error) {
	r, err := c.Region(region)
	if err != nil {
		return nil, err
	}
	out := make([]Attraction, len(r.Attractions))
	copy(out, r.Attractions)
	return out, nil
}

// Find returns the attraction with id in region.
func (c *Catalog) Find(region, id string) (Attraction, error) {
	r, err := c.Region(region)
	if err != nil {
		return Attraction{}, err
	}
	for _, a := range r.Attractions {
		if a.ID == id {
			return a, nil
		}
	}
	return Attraction{}, fmt.Errorf("%w: %q in %s", ErrUnknownAttraction, id, r.Name)
}

// Center returns the mean coordinates of a region's attractions, the point a
// map view centers on. ok is false for an empty region.
func (r Region) Center() (lat, lng float64, ok bool) {
	if len(r.Attractions) == 0 {
		return 0, 0, false
	}
	for _, a := range r.Attractions {
		lat += a.Latitude
		lng += a.Longitude
	}
	n := float64(len(r.Attractions))
	return lat / n, lng / n, true
}

// normalize makes region lookups ignore case and treat "_" as a space, so
// "kapuas_hulu" finds "Kapuas Hulu".
func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", " "))
}
