// Package checklog defines the audit Entry recorded for permission
// decisions.
package checklog

import (
	"time"

	"github.com/xraph/steward/id"
)

// Entry is a single audited decision.
type Entry struct {
	ID           id.CheckLogID `json:"id" db:"id"`
	TenantID     string        `json:"tenant_id" db:"tenant_id"`
	UserID       string        `json:"user_id" db:"user_id"`
	Operation    string        `json:"operation" db:"operation"`
	Action       string        `json:"action,omitempty" db:"action"`
	ResourceType string        `json:"resource_type,omitempty" db:"resource_type"`
	ResourceID   string        `json:"resource_id,omitempty" db:"resource_id"`
	Scope        string        `json:"scope,omitempty" db:"scope"`
	Allowed      bool          `json:"allowed" db:"allowed"`
	Reason       string        `json:"reason,omitempty" db:"reason"`
	EvalTimeNs   int64         `json:"eval_time_ns" db:"eval_time_ns"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

// QueryFilter contains filters for querying audit entries.
type QueryFilter struct {
	TenantID     string     `json:"tenant_id,omitempty"`
	UserID       string     `json:"user_id,omitempty"`
	Operation    string     `json:"operation,omitempty"`
	ResourceType string     `json:"resource_type,omitempty"`
	Allowed      *bool      `json:"allowed,omitempty"`
	After        *time.Time `json:"after,omitempty"`
	Before       *time.Time `json:"before,omitempty"`
	Limit        int        `json:"limit,omitempty"`
	Offset       int        `json:"offset,omitempty"`
}
