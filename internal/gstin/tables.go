// Package gstin resolves Indian GST identification numbers to state names and
// accounting branches.
package gstin

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

// Pattern matches a single GSTIN: 2-digit state code, 10-character PAN,
// entity digit, one alphanumeric and a check character.
const Pattern = `\d{2}[A-Z]{5}\d{4}[A-Z]\d[A-Z\d]{2}`

var (
	gstinRe     = regexp.MustCompile(`^` + Pattern + `$`)
	stateCodeRe = regexp.MustCompile(`^\d{2}$`)
)

// ErrInvalidTable is returned when a lookup table file cannot be used.
var ErrInvalidTable = errors.New("invalid lookup table")

//go:embed tables.yaml
var embeddedTables []byte

// Valid reports whether s has the shape of a GSTIN.
func Valid(s string) bool {
	return gstinRe.MatchString(s)
}

// Tables holds the static lookups. A Tables value is read-only after loading.
type Tables struct {
	states           map[string]string
	vendorBranches   map[string]string
	customerBranches map[string]string
}

type tablesFile struct {
	States           map[string]string `yaml:"states"`
	VendorBranches   map[string]string `yaml:"vendor_branches"`
	CustomerBranches map[string]string `yaml:"customer_branches"`
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the built-in tables.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Parse(embeddedTables)
		if err != nil {
			panic(fmt.Sprintf("gstin: embedded tables: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// Parse decodes a YAML lookup document.
func Parse(data []byte) (*Tables, error) {
	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &Tables{
		states:           copyMap(f.States),
		vendorBranches:   copyMap(f.VendorBranches),
		customerBranches: copyMap(f.CustomerBranches),
	}, nil
}

// LoadFile returns the built-in tables with the entries from path merged on
// top. An empty path returns the built-in tables unchanged.
func LoadFile(path string) (*Tables, error) {
	base := Default()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup tables %s: %w", path, err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lookup tables %s: %w", path, err)
	}
	return base.Merge(override), nil
}

// Merge returns a new Tables with entries of other taking precedence.
func (t *Tables) Merge(other *Tables) *Tables {
	merged := &Tables{
		states:           copyMap(t.states),
		vendorBranches:   copyMap(t.vendorBranches),
		customerBranches: copyMap(t.customerBranches),
	}
	for k, v := range other.states {
		merged.states[k] = v
	}
	for k, v := range other.vendorBranches {
		merged.vendorBranches[k] = v
	}
	for k, v := range other.customerBranches {
		merged.customerBranches[k] = v
	}
	return merged
}

// StateName looks up a two-digit state code.
func (t *Tables) StateName(code string) (string, bool) {
	name, ok := t.states[code]
	return name, ok
}

// VendorBranch looks up an airline GSTIN in the organization branch map.
func (t *Tables) VendorBranch(gstin string) (string, bool) {
	b, ok := t.vendorBranches[gstin]
	return b, ok
}

// CustomerBranch looks up a company GSTIN in the customer branch map.
func (t *Tables) CustomerBranch(gstin string) (string, bool) {
	b, ok := t.customerBranches[gstin]
	return b, ok
}

// Counts returns the number of states, vendor branches and customer branches.
func (t *Tables) Counts() (states, vendors, customers int) {
	return len(t.states), len(t.vendorBranches), len(t.customerBranches)
}

func (f *tablesFile) validate() error {
	for code, name := range f.States {
		if !stateCodeRe.MatchString(code) {
			return fmt.Errorf("%w: state code %q is not two digits", ErrInvalidTable, code)
		}
		if name == "" {
			return fmt.Errorf("%w: state %s has no name", ErrInvalidTable, code)
		}
	}
	for id := range f.VendorBranches {
		if !Valid(id) {
			return fmt.Errorf("%w: vendor key %q is not a GSTIN", ErrInvalidTable, id)
		}
	}
	for id := range f.CustomerBranches {
		if !Valid(id) {
			return fmt.Errorf("%w: customer key %q is not a GSTIN", ErrInvalidTable, id)
		}
	}
	return nil
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
