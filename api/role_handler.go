package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/steward/id"
	"github.com/xraph/steward/role"
	"github.com/xraph/steward/store"
)

func (a *API) registerRoleRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("roles"), forge.WithGroupMiddleware(a.adminOnly()))

	if err := g.POST("/roles", a.createRole,
		forge.WithSummary("Create role"),
		forge.WithDescription("Creates a role with its baseline permission document."),
		forge.WithOperationID("createRole"),
		forge.WithRequestSchema(CreateRoleRequest{}),
		forge.WithCreatedResponse(&role.Role{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/roles/:roleId", a.getRole,
		forge.WithSummary("Get role"),
		forge.WithDescription("Returns details of a specific role."),
		forge.WithOperationID("getRole"),
		forge.WithResponseSchema(http.StatusOK, "Role details", &role.Role{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/roles/:roleId", a.updateRole,
		forge.WithSummary("Update role"),
		forge.WithDescription("Updates a role. Cached decisions for the tenant are dropped."),
		forge.WithOperationID("updateRole"),
		forge.WithRequestSchema(UpdateRoleRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated role", &role.Role{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/roles/:roleId", a.deleteRole,
		forge.WithSummary("Delete role"),
		forge.WithDescription("Deletes a role. Users holding it fall back to their overrides."),
		forge.WithOperationID("deleteRole"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/roles", a.listRoles,
		forge.WithSummary("List roles"),
		forge.WithDescription("Lists the tenant's roles."),
		forge.WithOperationID("listRoles"),
		forge.WithRequestSchema(ListRolesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Role list", ListResponse[*role.Role]{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createRole(ctx forge.Context, req *CreateRoleRequest) (*role.Role, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, forge.BadRequest("name is required")
	}

	r := &role.Role{
		ID:          id.NewRoleID(),
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    !req.Inactive,
		Permissions: req.Permissions,
		Metadata:    req.Metadata,
	}
	if err := a.store.CreateRole(ctx.Context(), r); err != nil {
		return nil, mapError(err)
	}

	return r, ctx.JSON(http.StatusCreated, r)
}

// tenantRole loads a role and hides roles of other tenants.
func (a *API) tenantRole(ctx forge.Context) (*role.Role, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	roleID, err := id.ParseRoleID(ctx.Param("roleId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid role ID: %v", err))
	}
	r, err := a.store.GetRole(ctx.Context(), roleID)
	if err != nil {
		return nil, mapError(err)
	}
	if r.TenantID != tenantID {
		return nil, mapError(fmt.Errorf("role %s: %w", roleID, store.ErrNotFound))
	}
	return r, nil
}

func (a *API) getRole(ctx forge.Context, _ *GetRoleRequest) (*role.Role, error) {
	r, err := a.tenantRole(ctx)
	if err != nil {
		return nil, err
	}
	return r, ctx.JSON(http.StatusOK, r)
}

func (a *API) updateRole(ctx forge.Context, req *UpdateRoleRequest) (*role.Role, error) {
	r, err := a.tenantRole(ctx)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		r.Name = req.Name
	}
	if req.Description != "" {
		r.Description = req.Description
	}
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}
	if req.Permissions != nil {
		r.Permissions = req.Permissions
	}
	if req.Metadata != nil {
		r.Metadata = req.Metadata
	}

	if err := a.store.UpdateRole(ctx.Context(), r); err != nil {
		return nil, mapError(err)
	}
	if err := a.eng.InvalidateTenant(ctx.Context()); err != nil {
		return nil, mapError(err)
	}

	return r, ctx.JSON(http.StatusOK, r)
}

func (a *API) deleteRole(ctx forge.Context, _ *GetRoleRequest) (*struct{}, error) {
	r, err := a.tenantRole(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.store.DeleteRole(ctx.Context(), r.ID); err != nil {
		return nil, mapError(err)
	}
	if err := a.eng.InvalidateTenant(ctx.Context()); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listRoles(ctx forge.Context, req *ListRolesRequest) (*ListResponse[*role.Role], error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	filter := &role.ListFilter{
		TenantID: tenantID,
		Search:   req.Search,
		Limit:    defaultLimit(req.Limit),
		Offset:   req.Offset,
	}

	roles, err := a.store.ListRoles(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.store.CountRoles(ctx.Context(), &role.ListFilter{TenantID: tenantID, Search: req.Search})
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*role.Role]{Items: roles, Total: total, Limit: filter.Limit, Offset: filter.Offset}
	return resp, ctx.JSON(http.StatusOK, resp)
}
