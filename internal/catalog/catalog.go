// Package catalog holds the therapy circuits offered at the kiosk.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/saunasuites/suites/internal/models"
)

// Catalog is an immutable, ordered list of circuits.
type Catalog struct {
	circuits []models.SpaCircuit
	byID     map[string]int
}

// New builds a catalog, rejecting empty or duplicate ids.
func New(circuits []models.SpaCircuit) (*Catalog, error) {
	c := &Catalog{
		circuits: make([]models.SpaCircuit, 0, len(circuits)),
		byID:     make(map[string]int, len(circuits)),
	}
	for _, circuit := range circuits {
		if circuit.ID == "" {
			return nil, fmt.Errorf("circuit %q has no id", circuit.Name)
		}
		if _, dup := c.byID[circuit.ID]; dup {
			return nil, fmt.Errorf("duplicate circuit id %q", circuit.ID)
		}
		c.byID[circuit.ID] = len(c.circuits)
		c.circuits = append(c.circuits, circuit)
	}
	return c, nil
}

// Default returns the built-in circuit catalog.
func Default() *Catalog {
	c, err := New(defaultCircuits)
	if err != nil {
		panic(err)
	}
	return c
}

type catalogFile struct {
	Circuits []models.SpaCircuit `yaml:"circuits"`
}

// LoadFile reads a YAML catalog of the form:
//
//	circuits:
//	  - id: health-circuit
//	    name: "🩺 Health Circuit"
//	    description: "5 min Cold Plunge → 40 min Sauna"
//	    isGroupCircuit: false
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Circuits) == 0 {
		return nil, fmt.Errorf("catalog %s defines no circuits", path)
	}
	return New(f.Circuits)
}

// Load returns the catalog at path, or the default catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// All returns a copy of every circuit in catalog order.
func (c *Catalog) All() []models.SpaCircuit {
	out := make([]models.SpaCircuit, len(c.circuits))
	copy(out, c.circuits)
	return out
}

// Get looks up a circuit by id.
func (c *Catalog) Get(id string) (models.SpaCircuit, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.SpaCircuit{}, false
	}
	return c.circuits[i], true
}

// GroupCircuit returns the first circuit flagged for large groups.
func (c *Catalog) GroupCircuit() (models.SpaCircuit, bool) {
	for _, circuit := range c.circuits {
		if circuit.IsGroupCircuit {
			return circuit, true
		}
	}
	return models.SpaCircuit{}, false
}

// Filter returns the group circuits when group is true, otherwise the rest.
func (c *Catalog) Filter(group bool) []models.SpaCircuit {
	var out []models.SpaCircuit
	for _, circuit := range c.circuits {
		if circuit.IsGroupCircuit == group {
			out = append(out, circuit)
		}
	}
	return out
}

var defaultCircuits = []models.SpaCircuit{
	{
		ID:          "health-circuit",
		Name:        "🩺 Health Circuit",
		Description: "5 min Cold Plunge → 5 min Red Light → 40 min Sauna. Boosts immunity, lowers stress, enhances balance.",
	},
	{
		ID:          "cold-circuit",
		Name:        "❄️ Cold Circuit",
		Description: "5 min Cold Plunge → 5 min Red Light → 5 min Cold → 30 min Sauna → 5 min Cold. Cold exposure increases norepinephrine for sharper focus, energy, and mood.",
	},
	{
		ID:          "heat-circuit",
		Name:        "🔥 Heat Circuit",
		Description: "2 min Cold Plunge → 50 min Sauna. Ends with intense heat to activate heat shock proteins, support detox, and circulation.",
	},
	{
		ID:          "skin-rejuvenation",
		Name:        "💎 Skin Rejuvenation Circuit",
		Description: "5 min Cold Plunge → 15 min Red Light → 30 min Sauna. Light + heat combo for collagen production, glowing skin, and rejuvenation.",
	},
	{
		ID:          "freestyle",
		Name:        "🎛️ Freestyle Mode",
		Description: "No rules. Create your own healing flow. Listen to your body. It knows what to do.",
	},
	{
		ID:             "group-circuit",
		Name:           "👥 Group Circuit Flow",
		Description:    "Step 1: Split into 2 groups - Group A (2 guests) starts in sauna, Group B (1-2 guests) rotates between cold plunge & red light. Step 2: Group B does 3 rounds of 5 min red light → 5 min cold plunge (30 min total) while Group A stays in sauna. Step 3: Groups switch.",
		IsGroupCircuit: true,
	},
}
