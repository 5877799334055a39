// Package queue defines the audit events published after bulk
// mutations and the background consumer that records them.
package queue

// Operation names used in BulkOperationEvent.Op.
const (
	OpRename           = "rename"
	OpAssign           = "assign"
	OpReassign         = "reassign"
	OpDeleteByCategory = "delete_by_category"
	OpImport           = "import"
)

// BulkOperationEvent is published after a bulk mutation commits. It
// carries enough for downstream consumers to log or trigger analytics
// without reading the primary store. Detail is a short human-readable
// summary such as `"Running" -> "Jogging"`.
type BulkOperationEvent struct {
	UserID     string `json:"user_id"`
	Op         string `json:"op"`
	Detail     string `json:"detail"`
	Count      int    `json:"count"`
	OccurredAt string `json:"occurred_at"`
}
