package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/steward/id"
	"github.com/xraph/steward/principal"
)

func (a *API) registerPrincipalRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("principals"), forge.WithGroupMiddleware(a.adminOnly()))

	if err := g.POST("/principals", a.createPrincipal,
		forge.WithSummary("Register user"),
		forge.WithDescription("Registers an application user with a role and optional overrides."),
		forge.WithOperationID("createPrincipal"),
		forge.WithRequestSchema(CreatePrincipalRequest{}),
		forge.WithCreatedResponse(&principal.Principal{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/principals/:userId", a.getPrincipal,
		forge.WithSummary("Get user"),
		forge.WithOperationID("getPrincipal"),
		forge.WithResponseSchema(http.StatusOK, "User", &principal.Principal{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/principals/:userId", a.updatePrincipal,
		forge.WithSummary("Update user"),
		forge.WithDescription("Updates role binding, profile, or active flag."),
		forge.WithOperationID("updatePrincipal"),
		forge.WithRequestSchema(UpdatePrincipalRequest{}),
		forge.WithResponseSchema(http.StatusOK, "User", &principal.Principal{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/principals/:userId/overrides", a.setOverrides,
		forge.WithSummary("Set overrides"),
		forge.WithDescription("Replaces the user's override document."),
		forge.WithOperationID("setPrincipalOverrides"),
		forge.WithRequestSchema(SetOverridesRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/principals/:userId", a.deletePrincipal,
		forge.WithSummary("Remove user"),
		forge.WithOperationID("deletePrincipal"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/principals", a.listPrincipals,
		forge.WithSummary("List users"),
		forge.WithOperationID("listPrincipals"),
		forge.WithRequestSchema(ListPrincipalsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "User list", []*principal.Principal{}),
		forge.WithErrorResponses(),
	)
}

func parseOptionalRoleID(s string) (id.RoleID, error) {
	if s == "" {
		return id.RoleID{}, nil
	}
	rid, err := id.ParseRoleID(s)
	if err != nil {
		return id.RoleID{}, forge.BadRequest(fmt.Sprintf("invalid role_id: %v", err))
	}
	return rid, nil
}

func (a *API) createPrincipal(ctx forge.Context, req *CreatePrincipalRequest) (*principal.Principal, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	if req.UserID == "" {
		return nil, forge.BadRequest("user_id is required")
	}
	rid, err := parseOptionalRoleID(req.RoleID)
	if err != nil {
		return nil, err
	}

	p := &principal.Principal{
		ID:          req.UserID,
		TenantID:    tenantID,
		RoleID:      rid,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		IsActive:    !req.Inactive,
		Overrides:   req.Overrides,
		Metadata:    req.Metadata,
	}
	if err := a.store.CreatePrincipal(ctx.Context(), p); err != nil {
		return nil, mapError(err)
	}
	return p, ctx.JSON(http.StatusCreated, p)
}

func (a *API) getPrincipal(ctx forge.Context, _ *UserPathRequest) (*principal.Principal, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	p, err := a.store.GetPrincipal(ctx.Context(), tenantID, ctx.Param("userId"))
	if err != nil {
		return nil, mapError(err)
	}
	return p, ctx.JSON(http.StatusOK, p)
}

func (a *API) updatePrincipal(ctx forge.Context, req *UpdatePrincipalRequest) (*principal.Principal, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	p, err := a.store.GetPrincipal(ctx.Context(), tenantID, ctx.Param("userId"))
	if err != nil {
		return nil, mapError(err)
	}

	if req.RoleID != "" {
		if p.RoleID, err = parseOptionalRoleID(req.RoleID); err != nil {
			return nil, err
		}
	}
	if req.Email != "" {
		p.Email = req.Email
	}
	if req.DisplayName != "" {
		p.DisplayName = req.DisplayName
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.Metadata != nil {
		p.Metadata = req.Metadata
	}

	if err := a.store.UpdatePrincipal(ctx.Context(), p); err != nil {
		return nil, mapError(err)
	}
	if err := a.eng.Invalidate(ctx.Context(), p.ID); err != nil {
		return nil, mapError(err)
	}
	return p, ctx.JSON(http.StatusOK, p)
}

func (a *API) setOverrides(ctx forge.Context, req *SetOverridesRequest) (*struct{}, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	userID := ctx.Param("userId")
	if err := a.store.SetOverrides(ctx.Context(), tenantID, userID, req.Overrides); err != nil {
		return nil, mapError(err)
	}
	if err := a.eng.Invalidate(ctx.Context(), userID); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) deletePrincipal(ctx forge.Context, _ *UserPathRequest) (*struct{}, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	userID := ctx.Param("userId")
	if err := a.store.DeletePrincipal(ctx.Context(), tenantID, userID); err != nil {
		return nil, mapError(err)
	}
	if err := a.eng.Invalidate(ctx.Context(), userID); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listPrincipals(ctx forge.Context, req *ListPrincipalsRequest) ([]*principal.Principal, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	filter := &principal.ListFilter{
		TenantID: tenantID,
		Search:   req.Search,
		Limit:    defaultLimit(req.Limit),
		Offset:   req.Offset,
	}
	if req.RoleID != "" {
		rid, err := parseOptionalRoleID(req.RoleID)
		if err != nil {
			return nil, err
		}
		filter.RoleID = &rid
	}

	list, err := a.store.ListPrincipals(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	return list, ctx.JSON(http.StatusOK, list)
}
