package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/steward"
	"github.com/xraph/steward/assignment"
)

func (a *API) registerDecisionRoutes(router forge.Router) error {
	g := router.Group("/v1/decisions", forge.WithGroupTags("decisions"))

	if err := g.POST("/scope", a.scope,
		forge.WithSummary("View scope"),
		forge.WithDescription("Returns the view scope a user holds over a resource type."),
		forge.WithOperationID("decisionScope"),
		forge.WithRequestSchema(DecisionRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Scope", ScopeResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/filter", a.filter,
		forge.WithSummary("Visibility filter"),
		forge.WithDescription("Builds the row filter for one or more resource types."),
		forge.WithOperationID("decisionFilter"),
		forge.WithRequestSchema(FilterRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Filters", FilterResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/can-perform", a.canPerform,
		forge.WithSummary("Action check"),
		forge.WithDescription("Evaluates whether a user may perform an action on a resource type."),
		forge.WithOperationID("decisionCanPerform"),
		forge.WithRequestSchema(ActionRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Grant", GrantResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/access", a.access,
		forge.WithSummary("Record access"),
		forge.WithDescription("Evaluates whether a user can reach one record by ownership or assignment."),
		forge.WithOperationID("decisionAccess"),
		forge.WithRequestSchema(AccessRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Access", AccessResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/explain", a.explain,
		forge.WithSummary("Explain decision"),
		forge.WithDescription("Reports every step behind a user's scope over a resource type. Administrators only."),
		forge.WithOperationID("decisionExplain"),
		forge.WithRequestSchema(DecisionRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Explanation", steward.Explanation{}),
		forge.WithErrorResponses(),
		forge.WithMiddleware(a.adminOnly()),
	); err != nil {
		return err
	}

	return g.GET("/team/:userId", a.team,
		forge.WithSummary("Resolve team"),
		forge.WithDescription("Returns the supervisor and their active direct reports."),
		forge.WithOperationID("decisionTeam"),
		forge.WithResponseSchema(http.StatusOK, "Team", TeamResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) scope(ctx forge.Context, req *DecisionRequest) (*ScopeResponse, error) {
	s, err := a.eng.Scope(ctx.Context(), req.UserID, req.ResourceType)
	if err != nil {
		return nil, mapError(err)
	}
	resp := &ScopeResponse{UserID: req.UserID, ResourceType: req.ResourceType, Scope: s}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) filter(ctx forge.Context, req *FilterRequest) (*FilterResponse, error) {
	if len(req.ResourceTypes) == 0 {
		return nil, forge.BadRequest("resource_types is required")
	}
	filters, err := a.eng.BuildFilters(ctx.Context(), req.UserID, req.ResourceTypes...)
	if err != nil {
		return nil, mapError(err)
	}

	ph := steward.Question
	if req.Dollar {
		ph = steward.Dollar
	}
	resp := &FilterResponse{UserID: req.UserID, Filters: make(map[string]FilterResult, len(filters))}
	for rt, f := range filters {
		res := FilterResult{Filter: f}
		if req.Column != "" {
			res.SQL, res.Args = f.SQL(req.Column, ph, 1)
		}
		resp.Filters[rt] = res
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) canPerform(ctx forge.Context, req *ActionRequest) (*GrantResponse, error) {
	if req.Action == "" {
		return nil, forge.BadRequest("action is required")
	}
	g, err := a.eng.CanPerform(ctx.Context(), req.UserID, req.ResourceType, req.Action)
	if err != nil {
		return nil, mapError(err)
	}
	resp := &GrantResponse{UserID: req.UserID, ResourceType: req.ResourceType, Action: req.Action, Grant: g}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) access(ctx forge.Context, req *AccessRequest) (*AccessResponse, error) {
	level := assignment.AccessRead
	if req.Level != "" {
		level = assignment.AccessLevel(req.Level)
		if level.Rank() == 0 {
			return nil, forge.BadRequest("level must be read, write or full")
		}
	}
	ok, err := a.eng.CanAccessResource(ctx.Context(), req.UserID, steward.Resource{
		Type:    req.ResourceType,
		ID:      req.ResourceID,
		OwnerID: req.OwnerID,
	}, level)
	if err != nil {
		return nil, mapError(err)
	}
	resp := &AccessResponse{Allowed: ok}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) explain(ctx forge.Context, req *DecisionRequest) (*steward.Explanation, error) {
	ex, err := a.eng.Explain(ctx.Context(), req.UserID, req.ResourceType)
	if err != nil {
		return nil, mapError(err)
	}
	return ex, ctx.JSON(http.StatusOK, ex)
}

func (a *API) team(ctx forge.Context, _ *UserPathRequest) (*TeamResponse, error) {
	userID := ctx.Param("userId")
	members, err := a.eng.ResolveTeam(ctx.Context(), userID)
	if err != nil {
		return nil, mapError(err)
	}
	resp := &TeamResponse{SupervisorID: userID, Members: members}
	return resp, ctx.JSON(http.StatusOK, resp)
}
