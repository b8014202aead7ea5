package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/principal"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store/memory"
	"github.com/xraph/steward/team"
)

// fixture is a YAML seed for the memory store. Permission documents are
// written either as YAML mappings or as raw strings; strings are stored
// verbatim so malformed documents can be reproduced.
type fixture struct {
	Roles []struct {
		Key         string    `yaml:"key"`
		Tenant      string    `yaml:"tenant"`
		Name        string    `yaml:"name"`
		Inactive    bool      `yaml:"inactive"`
		Permissions yaml.Node `yaml:"permissions"`
	} `yaml:"roles"`

	Users []struct {
		ID        string    `yaml:"id"`
		Tenant    string    `yaml:"tenant"`
		Role      string    `yaml:"role"`
		Email     string    `yaml:"email"`
		Inactive  bool      `yaml:"inactive"`
		Overrides yaml.Node `yaml:"overrides"`
	} `yaml:"users"`

	Team []struct {
		Tenant     string `yaml:"tenant"`
		Supervisor string `yaml:"supervisor"`
		Member     string `yaml:"member"`
		Inactive   bool   `yaml:"inactive"`
	} `yaml:"team"`

	Assignments []struct {
		Tenant       string `yaml:"tenant"`
		ResourceType string `yaml:"resource_type"`
		ResourceID   string `yaml:"resource_id"`
		User         string `yaml:"user"`
		Level        string `yaml:"level"`
		Inactive     bool   `yaml:"inactive"`
	} `yaml:"assignments"`
}

// document turns a YAML node into raw document bytes. A scalar is kept as
// written, a mapping is re-encoded as JSON, an absent node is nil.
func document(n *yaml.Node) (json.RawMessage, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return json.RawMessage(n.Value), nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func loadFixture(ctx context.Context, path string) (*memory.Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}

	s := memory.New()
	roleIDs := make(map[string]id.RoleID, len(fx.Roles))

	for _, r := range fx.Roles {
		perms, err := document(&r.Permissions)
		if err != nil {
			return nil, fmt.Errorf("role %q permissions: %w", r.Key, err)
		}
		rid := id.NewRoleID()
		if err := s.CreateRole(ctx, &role.Role{
			ID:          rid,
			TenantID:    r.Tenant,
			Name:        r.Name,
			IsActive:    !r.Inactive,
			Permissions: perms,
		}); err != nil {
			return nil, err
		}
		roleIDs[r.Key] = rid
	}

	for _, u := range fx.Users {
		overrides, err := document(&u.Overrides)
		if err != nil {
			return nil, fmt.Errorf("user %q overrides: %w", u.ID, err)
		}
		p := &principal.Principal{
			ID:        u.ID,
			TenantID:  u.Tenant,
			Email:     u.Email,
			IsActive:  !u.Inactive,
			Overrides: overrides,
		}
		if u.Role != "" {
			rid, ok := roleIDs[u.Role]
			if !ok {
				return nil, fmt.Errorf("user %q: unknown role key %q", u.ID, u.Role)
			}
			p.RoleID = rid
		}
		if err := s.CreatePrincipal(ctx, p); err != nil {
			return nil, err
		}
	}

	for _, e := range fx.Team {
		if err := s.CreateEdge(ctx, &team.Edge{
			ID:           id.NewEdgeID(),
			TenantID:     e.Tenant,
			SupervisorID: e.Supervisor,
			MemberID:     e.Member,
			IsActive:     !e.Inactive,
		}); err != nil {
			return nil, err
		}
	}

	for _, a := range fx.Assignments {
		level := assignment.AccessLevel(a.Level)
		if level.Rank() == 0 {
			return nil, fmt.Errorf("assignment %s/%s: invalid level %q", a.ResourceType, a.ResourceID, a.Level)
		}
		if err := s.CreateAssignment(ctx, &assignment.Assignment{
			ID:           id.NewAssignmentID(),
			TenantID:     a.Tenant,
			ResourceType: a.ResourceType,
			ResourceID:   a.ResourceID,
			AssignedTo:   a.User,
			AccessLevel:  level,
			IsActive:     !a.Inactive,
		}); err != nil {
			return nil, err
		}
	}

	return s, nil
}
