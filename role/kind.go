package role

import (
	"strings"
	"unicode"
)

// Kind is the closed set of role classes the engine distinguishes.
type Kind uint8

const (
	// KindNone means the principal has no usable role.
	KindNone Kind = iota
	KindAdministrator
	KindSupervisor
	KindRecruiter
	// KindCustom is any other active role; its name is kept in
	// Classification.Name.
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindAdministrator:
		return "administrator"
	case KindSupervisor:
		return "supervisor"
	case KindRecruiter:
		return "recruiter"
	case KindCustom:
		return "custom"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Unknown text is KindNone.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "administrator":
		*k = KindAdministrator
	case "supervisor":
		*k = KindSupervisor
	case "recruiter":
		*k = KindRecruiter
	case "custom":
		*k = KindCustom
	default:
		*k = KindNone
	}
	return nil
}

// Classification is the result of classifying a principal's role.
type Classification struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name,omitempty"`
}

// None is the classification of a principal without a usable role.
var None = Classification{}

func (c Classification) IsAdministrator() bool { return c.Kind == KindAdministrator }
func (c Classification) IsSupervisor() bool    { return c.Kind == KindSupervisor }
func (c Classification) IsRecruiter() bool     { return c.Kind == KindRecruiter }

// HasRole reports whether the principal resolved to any active role.
func (c Classification) HasRole() bool { return c.Kind != KindNone }

// Vocabulary maps canonical role names to kinds. Matching is exact and
// case-sensitive: "Administradores" or " Administrador" are custom roles.
type Vocabulary struct {
	Administrator []string `json:"administrator" yaml:"administrator" mapstructure:"administrator"`
	Supervisor    []string `json:"supervisor" yaml:"supervisor" mapstructure:"supervisor"`
	Recruiter     []string `json:"recruiter" yaml:"recruiter" mapstructure:"recruiter"`
}

// IsZero reports whether no role names are configured at all.
func (v Vocabulary) IsZero() bool {
	return len(v.Administrator) == 0 && len(v.Supervisor) == 0 && len(v.Recruiter) == 0
}

// DefaultVocabulary returns the canonical names used by existing tenants.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Administrator: []string{"Administrador"},
		Supervisor:    []string{"Supervisor"},
		Recruiter:     []string{"Reclutador"},
	}
}

// Classify resolves a role name to its classification. An empty name is
// KindNone.
func (v Vocabulary) Classify(name string) Classification {
	if name == "" {
		return None
	}
	switch {
	case contains(v.Administrator, name):
		return Classification{Kind: KindAdministrator, Name: name}
	case contains(v.Supervisor, name):
		return Classification{Kind: KindSupervisor, Name: name}
	case contains(v.Recruiter, name):
		return Classification{Kind: KindRecruiter, Name: name}
	default:
		return Classification{Kind: KindCustom, Name: name}
	}
}

// NearMiss describes a role name that resembles a canonical name without
// matching it exactly.
type NearMiss struct {
	Canonical string `json:"canonical"`
	Kind      Kind   `json:"kind"`
	Reason    string `json:"reason"`
}

// NearMisses lists canonical names that name resembles. Exact matches and
// unrelated names yield nothing.
func (v Vocabulary) NearMisses(name string) []NearMiss {
	var out []NearMiss
	check := func(kind Kind, names []string) {
		for _, canonical := range names {
			if reason := nearMiss(name, canonical); reason != "" {
				out = append(out, NearMiss{Canonical: canonical, Kind: kind, Reason: reason})
			}
		}
	}
	check(KindAdministrator, v.Administrator)
	check(KindSupervisor, v.Supervisor)
	check(KindRecruiter, v.Recruiter)
	return out
}

func nearMiss(name, canonical string) string {
	switch {
	case name == canonical || canonical == "":
		return ""
	case strings.TrimFunc(name, unicode.IsSpace) == canonical:
		return "surrounding whitespace"
	case strings.EqualFold(name, canonical):
		return "case differs"
	case strings.Contains(name, canonical):
		return "contains canonical name"
	default:
		return ""
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
