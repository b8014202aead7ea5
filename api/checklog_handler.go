package api

import (
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/xraph/steward/checklog"
)

func (a *API) registerCheckLogRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("check-logs"), forge.WithGroupMiddleware(a.adminOnly()))

	return g.GET("/check-logs", a.listCheckLogs,
		forge.WithSummary("Query decision logs"),
		forge.WithDescription("Returns recorded decisions for the tenant with optional filters."),
		forge.WithOperationID("listCheckLogs"),
		forge.WithRequestSchema(ListCheckLogsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Check log list", []*checklog.Entry{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) listCheckLogs(ctx forge.Context, req *ListCheckLogsRequest) ([]*checklog.Entry, error) {
	tenantID, err := tenant(ctx)
	if err != nil {
		return nil, err
	}
	filter := &checklog.QueryFilter{
		TenantID:     tenantID,
		UserID:       req.UserID,
		Operation:    req.Operation,
		ResourceType: req.ResourceType,
		Limit:        defaultLimit(req.Limit),
		Offset:       req.Offset,
	}
	if req.Denied {
		denied := false
		filter.Allowed = &denied
	}

	if req.After != "" {
		t, err := time.Parse(time.RFC3339, req.After)
		if err != nil {
			return nil, forge.BadRequest("invalid after timestamp")
		}
		filter.After = &t
	}
	if req.Before != "" {
		t, err := time.Parse(time.RFC3339, req.Before)
		if err != nil {
			return nil, forge.BadRequest("invalid before timestamp")
		}
		filter.Before = &t
	}

	logs, err := a.store.ListCheckLogs(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return logs, ctx.JSON(http.StatusOK, logs)
}
