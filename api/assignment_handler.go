package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/steward"
	"github.com/xraph/steward/assignment"
	"github.com/xraph/steward/id"
	"github.com/xraph/steward/store"
)

func (a *API) registerAssignmentRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("assignments"), forge.WithGroupMiddleware(a.adminOnly()))

	if err := g.POST("/assignments", a.createAssignment,
		forge.WithSummary("Assign record"),
		forge.WithDescription("Grants one record to a user at an access level."),
		forge.WithOperationID("createAssignment"),
		forge.WithRequestSchema(CreateAssignmentRequest{}),
		forge.WithCreatedResponse(&assignment.Assignment{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/assignments/:assignmentId/active", a.setAssignmentActive,
		forge.WithSummary("Toggle assignment"),
		forge.WithOperationID("setAssignmentActive"),
		forge.WithRequestSchema(SetActiveRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/assignments/:assignmentId", a.deleteAssignment,
		forge.WithSummary("Remove assignment"),
		forge.WithOperationID("deleteAssignment"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/assignments", a.listAssignments,
		forge.WithSummary("List assignments"),
		forge.WithOperationID("listAssignments"),
		forge.WithRequestSchema(ListAssignmentsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Assignment list", []*assignment.Assignment{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createAssignment(ctx forge.Context, req *CreateAssignmentRequest) (*assignment.Assignment, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	if req.ResourceType == "" || req.ResourceID == "" || req.AssignedTo == "" {
		return nil, forge.BadRequest("resource_type, resource_id, and assigned_to are required")
	}
	level := assignment.AccessLevel(req.AccessLevel)
	if level.Rank() == 0 {
		return nil, forge.BadRequest("access_level must be read, write or full")
	}

	as := &assignment.Assignment{
		ID:           id.NewAssignmentID(),
		TenantID:     tenantID,
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		AssignedTo:   req.AssignedTo,
		AccessLevel:  level,
		IsActive:     true,
	}
	if by, ok := steward.UserFromContext(ctx.Context()); ok {
		as.AssignedBy = by
	}
	if err := a.store.CreateAssignment(ctx.Context(), as); err != nil {
		return nil, mapError(err)
	}
	return as, ctx.JSON(http.StatusCreated, as)
}

// tenantAssignment loads an assignment and hides those of other tenants.
func (a *API) tenantAssignment(ctx forge.Context) (*assignment.Assignment, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	aid, err := id.ParseAssignmentID(ctx.Param("assignmentId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid assignment ID: %v", err))
	}
	as, err := a.store.GetAssignment(ctx.Context(), aid)
	if err != nil {
		return nil, mapError(err)
	}
	if as.TenantID != tenantID {
		return nil, mapError(fmt.Errorf("assignment %s: %w", aid, store.ErrNotFound))
	}
	return as, nil
}

func (a *API) setAssignmentActive(ctx forge.Context, req *SetActiveRequest) (*struct{}, error) {
	as, err := a.tenantAssignment(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.store.SetAssignmentActive(ctx.Context(), as.ID, req.IsActive); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) deleteAssignment(ctx forge.Context, _ *AssignmentPathRequest) (*struct{}, error) {
	as, err := a.tenantAssignment(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.store.DeleteAssignment(ctx.Context(), as.ID); err != nil {
		return nil, mapError(err)
	}
	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listAssignments(ctx forge.Context, req *ListAssignmentsRequest) ([]*assignment.Assignment, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	list, err := a.store.ListAssignments(ctx.Context(), &assignment.ListFilter{
		TenantID:     tenantID,
		AssignedTo:   req.AssignedTo,
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		Limit:        defaultLimit(req.Limit),
		Offset:       req.Offset,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return list, ctx.JSON(http.StatusOK, list)
}
