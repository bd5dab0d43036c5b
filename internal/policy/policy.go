// Package policy implements resource authorization rules.
package policy

import "context"

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView     Action = "view"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionList     Action = "list"
	ActionDownload Action = "download"
)

// Policy decides whether a user may perform an action on a resource.
// For list/create, resource may be nil (context-only check).
type Policy interface {
	Can(ctx context.Context, userID uint, action Action, resource any) bool
}
