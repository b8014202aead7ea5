package role_test

import (
	"testing"

	"github.com/xraph/steward/role"
)

func TestClassifyExactMatch(t *testing.T) {
	v := role.DefaultVocabulary()

	tests := []struct {
		name string
		want role.Kind
	}{
		{"Administrador", role.KindAdministrator},
		{"Supervisor", role.KindSupervisor},
		{"Reclutador", role.KindRecruiter},
		{"Administradores", role.KindCustom},
		{"administrador", role.KindCustom},
		{"Admin", role.KindCustom},
		{"Administrador ", role.KindCustom},
		{" Administrador", role.KindCustom},
		{"SUPERVISOR", role.KindCustom},
		{"Coordinador", role.KindCustom},
		{"", role.KindNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Classify(tt.name)
			if got.Kind != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.name, got.Kind, tt.want)
			}
		})
	}
}

func TestClassifyCustomKeepsName(t *testing.T) {
	c := role.DefaultVocabulary().Classify("Coordinador")
	if c.Name != "Coordinador" || !c.HasRole() || c.IsAdministrator() {
		t.Fatalf("unexpected classification %+v", c)
	}
}

func TestClassifyConfiguredVocabulary(t *testing.T) {
	v := role.Vocabulary{Administrator: []string{"Administrator", "Administrador"}}
	if !v.Classify("Administrator").IsAdministrator() {
		t.Error("expected configured alias to match")
	}
	if v.Classify("Supervisor").Kind != role.KindCustom {
		t.Error("names outside the vocabulary are custom")
	}
}

func TestNearMisses(t *testing.T) {
	v := role.DefaultVocabulary()

	tests := []struct {
		name   string
		reason string
	}{
		{"Administradores", "contains canonical name"},
		{"administrador", "case differs"},
		{" Administrador", "surrounding whitespace"},
	}
	for _, tt := range tests {
		misses := v.NearMisses(tt.name)
		if len(misses) != 1 || misses[0].Reason != tt.reason || misses[0].Kind != role.KindAdministrator {
			t.Errorf("NearMisses(%q) = %+v, want one %q", tt.name, misses, tt.reason)
		}
	}
	if misses := v.NearMisses("Administrador"); len(misses) != 0 {
		t.Errorf("exact match reported as near miss: %+v", misses)
	}
	if misses := v.NearMisses("Coordinador"); len(misses) != 0 {
		t.Errorf("unrelated name reported: %+v", misses)
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []role.Kind{role.KindNone, role.KindAdministrator, role.KindSupervisor, role.KindRecruiter, role.KindCustom} {
		b, _ := k.MarshalText()
		var back role.Kind
		if err := back.UnmarshalText(b); err != nil || back != k {
			t.Errorf("text round trip of %s gave %s (%v)", k, back, err)
		}
	}
}
