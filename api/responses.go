package api

import "github.com/xraph/steward"

// ScopeResponse is the view scope of a user over a resource type.
type ScopeResponse struct {
	UserID       string        `json:"user_id" description:"Evaluated user"`
	ResourceType string        `json:"resource_type" description:"Resource type"`
	Scope        steward.Scope `json:"scope" description:"none, own, team or all"`
}

// FilterResult is the filter for one resource type.
type FilterResult struct {
	Filter steward.Filter `json:"filter" description:"Visibility filter"`
	SQL    string         `json:"sql,omitempty" description:"Predicate over the owner column"`
	Args   []any          `json:"args,omitempty" description:"Predicate arguments"`
}

// FilterResponse maps resource types to filters.
type FilterResponse struct {
	UserID  string                  `json:"user_id" description:"Evaluated user"`
	Filters map[string]FilterResult `json:"filters" description:"Filter per resource type"`
}

// GrantResponse is the result of an action check.
type GrantResponse struct {
	UserID       string        `json:"user_id" description:"Evaluated user"`
	ResourceType string        `json:"resource_type" description:"Resource type"`
	Action       string        `json:"action" description:"Action key"`
	Grant        steward.Grant `json:"grant" description:"Decision"`
}

// AccessResponse is the result of a record access check.
type AccessResponse struct {
	Allowed bool `json:"allowed" description:"Whether the user can reach the record"`
}

// TeamResponse lists a supervisor's team, the supervisor included.
type TeamResponse struct {
	SupervisorID string   `json:"supervisor_id" description:"Supervisor"`
	Members      []string `json:"members" description:"Team members, sorted"`
}

// ListResponse wraps a list of items with pagination metadata.
type ListResponse[T any] struct {
	Items  []T   `json:"items" description:"List of items"`
	Total  int64 `json:"total" description:"Total count"`
	Limit  int   `json:"limit" description:"Page size"`
	Offset int   `json:"offset" description:"Page offset"`
}
