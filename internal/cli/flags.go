package cli

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/spf13/pflag"
)

// scopeValue is a pflag.Value restricted to the export scopes.
type scopeValue domain.Scope

var _ pflag.Value = (*scopeValue)(nil)

func (v *scopeValue) String() string { return string(*v) }

func (v *scopeValue) Set(s string) error {
	scope := domain.Scope(strings.ToLower(strings.TrimSpace(s)))
	if !domain.ValidScopes[scope] {
		return fmt.Errorf("must be one of full, partial, tag")
	}
	*v = scopeValue(scope)
	return nil
}

func (v *scopeValue) Type() string { return "scope" }

// assignmentValue collects repeated ID=VALUE flags into a map. Values are
// checked against allowed.
type assignmentValue struct {
	kind    string
	allowed []string
	values  map[string]string
	order   []string
}

var _ pflag.Value = (*assignmentValue)(nil)

func newAssignmentValue(kind string, allowed ...string) *assignmentValue {
	return &assignmentValue{kind: kind, allowed: allowed, values: make(map[string]string)}
}

func (v *assignmentValue) String() string {
	parts := make([]string, 0, len(v.order))
	for _, id := range v.order {
		parts = append(parts, id+"="+v.values[id])
	}
	return strings.Join(parts, ",")
}

func (v *assignmentValue) Set(s string) error {
	for _, item := range strings.Split(s, ",") {
		id, val, ok := strings.Cut(strings.TrimSpace(item), "=")
		id, val = strings.TrimSpace(id), strings.ToLower(strings.TrimSpace(val))
		if !ok || id == "" {
			return fmt.Errorf("expected NODE=%s, got %q", v.kind, item)
		}
		if !slices.Contains(v.allowed, val) {
			return fmt.Errorf("unknown %s %q (allowed: %s)", v.kind, val, strings.Join(v.allowed, ", "))
		}
		if _, seen := v.values[id]; !seen {
			v.order = append(v.order, id)
		}
		v.values[id] = val
	}
	return nil
}

func (v *assignmentValue) Type() string { return v.kind + "s" }

// IDs returns the assigned node ids in flag order.
func (v *assignmentValue) IDs() []string {
	return slices.Clone(v.order)
}

func (v *assignmentValue) Get(id string) string {
	return v.values[id]
}

func dynamicTypeNames() []string {
	return sortedKeys(domain.ValidDynamicListTypes)
}

// columnKeyNames lists the assignable columns plus "none".
func columnKeyNames() []string {
	return append(sortedKeys(domain.ValidColumnKeys), "none")
}

func sortedKeys[K ~string](m map[K]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}
