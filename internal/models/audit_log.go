package models

import "time"

type AuditLog struct {
	ID         string         `json:"id" bson:"_id"`
	EntityType string         `json:"entity_type" bson:"entity_type"`
	EntityID   string         `json:"entity_id" bson:"entity_id"`
	Action     string         `json:"action" bson:"action"`
	ActorID    string         `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	Details    map[string]any `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}
