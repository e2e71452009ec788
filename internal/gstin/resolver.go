package gstin

import "strings"

// UnknownState marks a state code that is not in the state table.
const UnknownState = "UNKNOWN"

// DefaultCustomerState is the branch used when nothing else resolves a customer.
const DefaultCustomerState = "GUJARAT"

// BranchMap selects which branch table a lookup uses.
type BranchMap int

const (
	VendorMap BranchMap = iota
	CustomerMap
)

// Resolver maps tax identifiers to states and branches. It is safe for
// concurrent use.
type Resolver struct {
	tables        *Tables
	fallbackState string
}

// NewResolver creates a resolver. An empty fallbackState uses DefaultCustomerState.
func NewResolver(tables *Tables, fallbackState string) *Resolver {
	if tables == nil {
		tables = Default()
	}
	if fallbackState == "" {
		fallbackState = DefaultCustomerState
	}
	return &Resolver{tables: tables, fallbackState: strings.ToUpper(fallbackState)}
}

// Tables returns the lookup tables backing the resolver.
func (r *Resolver) Tables() *Tables {
	return r.tables
}

// ResolveState returns the two-digit code and state name of a tax id.
// Identifiers shorter than two characters yield empty strings; unknown codes
// yield UnknownState as the name.
func (r *Resolver) ResolveState(taxID string) (code, name string) {
	taxID = strings.TrimSpace(taxID)
	if len(taxID) < 2 {
		return "", ""
	}
	code = taxID[:2]
	if n, ok := r.tables.StateName(code); ok {
		return code, n
	}
	return code, UnknownState
}

// ResolveBranch returns the branch for a tax id from the selected map, or the
// state name derived from its first two characters. Empty when neither resolves.
func (r *Resolver) ResolveBranch(taxID string, m BranchMap) string {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return ""
	}

	var (
		branch string
		ok     bool
	)
	switch m {
	case VendorMap:
		branch, ok = r.tables.VendorBranch(taxID)
	case CustomerMap:
		branch, ok = r.tables.CustomerBranch(taxID)
	}
	if ok {
		return branch
	}

	if len(taxID) >= 2 {
		if name, ok := r.tables.StateName(taxID[:2]); ok {
			return name
		}
	}
	return ""
}

// VendorBranch resolves the organization branch of an airline GSTIN and
// reports whether it came from the vendor map.
func (r *Resolver) VendorBranch(taxID string) (string, bool) {
	if b, ok := r.tables.VendorBranch(strings.TrimSpace(taxID)); ok {
		return b, true
	}
	return r.ResolveBranch(taxID, VendorMap), false
}

// CustomerBranch resolves the customer branch. The order is the customer map,
// the GSTIN state code, the extracted state code, then the fallback state.
func (r *Resolver) CustomerBranch(taxID, stateCode string) string {
	if b := r.ResolveBranch(taxID, CustomerMap); b != "" {
		return b
	}
	if name, ok := r.tables.StateName(strings.TrimSpace(stateCode)); ok {
		return name
	}
	return r.fallbackState
}
