package permdoc

import (
	"slices"
	"strings"
)

// ResourceType names a top-level section of a permission document.
type ResourceType string

// Resource types understood out of the box.
const (
	Candidates   ResourceType = "candidates"
	Vacancies    ResourceType = "vacancies"
	Clients      ResourceType = "clients"
	Applications ResourceType = "applications"
	Interviews   ResourceType = "interviews"
	Hired        ResourceType = "hired"
	Dashboard    ResourceType = "dashboard"
	Reports      ResourceType = "reports"
	Templates    ResourceType = "templates"
	Users        ResourceType = "users"
)

// DefaultResourceTypes is the built-in known set.
func DefaultResourceTypes() []ResourceType {
	return []ResourceType{
		Candidates, Vacancies, Clients, Applications, Interviews,
		Hired, Dashboard, Reports, Templates, Users,
	}
}

// Standard capability keys inside a section.
const (
	KeyViewScope   = "view_scope"
	KeyEditScope   = "edit_scope"
	KeyDeleteScope = "delete_scope"
	KeyCreate      = "create"
	KeyEdit        = "edit"
	KeyDelete      = "delete"
	KeyExport      = "export"
)

// IsScopeAction reports whether action names a scope-valued capability.
func IsScopeAction(action string) bool {
	return strings.HasSuffix(action, "_scope")
}

// Registry is the set of resource types a document may grant. Sections
// for other names are ignored by evaluation.
type Registry struct {
	known map[ResourceType]struct{}
}

// NewRegistry builds a registry. With no arguments it holds
// DefaultResourceTypes.
func NewRegistry(types ...ResourceType) *Registry {
	if len(types) == 0 {
		types = DefaultResourceTypes()
	}
	r := &Registry{known: make(map[ResourceType]struct{}, len(types))}
	for _, t := range types {
		if t != "" {
			r.known[t] = struct{}{}
		}
	}
	return r
}

// Known reports whether rt is registered.
func (r *Registry) Known(rt ResourceType) bool {
	if r == nil {
		return false
	}
	_, ok := r.known[rt]
	return ok
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []ResourceType {
	out := make([]ResourceType, 0, len(r.known))
	for t := range r.known {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Capabilities is the typed view of one resource section. Scope fields
// hold the raw text; unset fields are empty or false.
type Capabilities struct {
	Resource    ResourceType
	ViewScope   string
	EditScope   string
	DeleteScope string
	Create      bool
	Edit        bool
	Delete      bool
	Export      bool

	// Extra holds resource-specific keys such as "view_financial".
	Extra map[string]any
}

// Section returns the typed capabilities for rt. It reports false when the
// section is absent or is not a mapping.
func (d Document) Section(rt ResourceType) (Capabilities, bool) {
	m, ok := asMap(d[string(rt)])
	if !ok {
		return Capabilities{Resource: rt}, false
	}
	c := Capabilities{Resource: rt, Extra: map[string]any{}}
	for k, v := range m {
		switch k {
		case KeyViewScope:
			c.ViewScope, _ = v.(string)
		case KeyEditScope:
			c.EditScope, _ = v.(string)
		case KeyDeleteScope:
			c.DeleteScope, _ = v.(string)
		case KeyCreate:
			c.Create = isTrue(v)
		case KeyEdit:
			c.Edit = isTrue(v)
		case KeyDelete:
			c.Delete = isTrue(v)
		case KeyExport:
			c.Export = isTrue(v)
		default:
			c.Extra[k] = cloneValue(v)
		}
	}
	return c, true
}

// Action returns the raw value of action within the section.
func (c Capabilities) Action(action string) (any, bool) {
	switch action {
	case KeyViewScope:
		return c.ViewScope, c.ViewScope != ""
	case KeyEditScope:
		return c.EditScope, c.EditScope != ""
	case KeyDeleteScope:
		return c.DeleteScope, c.DeleteScope != ""
	case KeyCreate:
		return c.Create, true
	case KeyEdit:
		return c.Edit, true
	case KeyDelete:
		return c.Delete, true
	case KeyExport:
		return c.Export, true
	}
	v, ok := c.Extra[action]
	return v, ok
}

// Allowed reports whether a boolean action is granted.
func (c Capabilities) Allowed(action string) bool {
	v, ok := c.Action(action)
	return ok && isTrue(v)
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}
