package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditRecord is an append-only log entry for sensitive admin actions
// such as account locks and unlocks. Records are never updated or deleted.
type AuditRecord struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Action      string             `bson:"action" json:"action"`
	ActorID     string             `bson:"actor_id" json:"actor_id"`
	ActorEmail  string             `bson:"actor_email" json:"actor_email"`
	TargetID    string             `bson:"target_id,omitempty" json:"target_id,omitempty"`
	TargetEmail string             `bson:"target_email,omitempty" json:"target_email,omitempty"`
	Details     map[string]any     `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
