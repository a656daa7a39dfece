package domain

import "time"

// AuditEntry is one record written to the audit collaborator. For
// certification, unsign, and retire actions the sink is invoked
// synchronously before the operation reports success.
type AuditEntry struct {
	ID         string            `json:"id"`
	ActorID    string            `json:"actor_id"`
	Action     string            `json:"action"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Details    map[string]string `json:"details,omitempty"`
	At         time.Time         `json:"at"`
}
