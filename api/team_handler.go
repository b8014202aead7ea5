package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/steward/id"
	"github.com/xraph/steward/store"
	"github.com/xraph/steward/team"
)

func (a *API) registerTeamRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("team"), forge.WithGroupMiddleware(a.adminOnly()))

	if err := g.POST("/team-edges", a.createEdge,
		forge.WithSummary("Add team member"),
		forge.WithDescription("Links a member to a supervisor."),
		forge.WithOperationID("createTeamEdge"),
		forge.WithRequestSchema(CreateEdgeRequest{}),
		forge.WithCreatedResponse(&team.Edge{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/team-edges/:edgeId/active", a.setEdgeActive,
		forge.WithSummary("Toggle team edge"),
		forge.WithOperationID("setTeamEdgeActive"),
		forge.WithRequestSchema(SetActiveRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/team-edges/:edgeId", a.deleteEdge,
		forge.WithSummary("Remove team edge"),
		forge.WithOperationID("deleteTeamEdge"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/team-edges", a.listEdges,
		forge.WithSummary("List team edges"),
		forge.WithOperationID("listTeamEdges"),
		forge.WithRequestSchema(ListEdgesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Edge list", []*team.Edge{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createEdge(ctx forge.Context, req *CreateEdgeRequest) (*team.Edge, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	if req.SupervisorID == "" || req.MemberID == "" {
		return nil, forge.BadRequest("supervisor_id and member_id are required")
	}
	if req.SupervisorID == req.MemberID {
		return nil, forge.BadRequest("a user cannot supervise themselves")
	}

	e := &team.Edge{
		ID:           id.NewEdgeID(),
		TenantID:     tenantID,
		SupervisorID: req.SupervisorID,
		MemberID:     req.MemberID,
		IsActive:     true,
	}
	if err := a.store.CreateEdge(ctx.Context(), e); err != nil {
		return nil, mapError(err)
	}
	return e, ctx.JSON(http.StatusCreated, e)
}

// tenantEdge loads an edge and hides edges of other tenants.
func (a *API) tenantEdge(ctx forge.Context) (*team.Edge, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	edgeID, err := id.ParseEdgeID(ctx.Param("edgeId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid edge ID: %v", err))
	}
	e, err := a.store.GetEdge(ctx.Context(), edgeID)
	if err != nil {
		return nil, mapError(err)
	}
	if e.TenantID != tenantID {
		return nil, mapError(fmt.Errorf("edge %s: %w", edgeID, store.ErrNotFound))
	}
	return e, nil
}

func (a *API) setEdgeActive(ctx forge.Context, req *SetActiveRequest) (*struct{}, error) {
	e, err := a.tenantEdge(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.store.SetEdgeActive(ctx.Context(), e.ID, req.IsActive); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) deleteEdge(ctx forge.Context, _ *EdgePathRequest) (*struct{}, error) {
	e, err := a.tenantEdge(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.store.DeleteEdge(ctx.Context(), e.ID); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listEdges(ctx forge.Context, req *ListEdgesRequest) ([]*team.Edge, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := a.store.ListEdges(ctx.Context(), &team.ListFilter{
		TenantID:     tenantID,
		SupervisorID: req.SupervisorID,
		MemberID:     req.MemberID,
		Limit:        defaultLimit(req.Limit),
		Offset:       req.Offset,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return edges, ctx.JSON(http.StatusOK, edges)
}
