package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inkwell/internal/models"
)

// AuditStore appends to the audit_logs collection. Records are write-only
// from the application's point of view; List exists for the admin surface.
type AuditStore struct {
	col *mongo.Collection
}

// NewAuditStore returns a new AuditStore.
func NewAuditStore(db *mongo.Database) *AuditStore {
	return &AuditStore{col: db.Collection("audit_logs")}
}

// Record appends one audit entry.
func (s *AuditStore) Record(ctx context.Context, action, actorID, actorEmail, targetID, targetEmail string, details map[string]any) error {
	rec := models.AuditRecord{
		ID:          primitive.NewObjectID(),
		Action:      action,
		ActorID:     actorID,
		ActorEmail:  actorEmail,
		TargetID:    targetID,
		TargetEmail: targetEmail,
		Details:     details,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

// List returns audit entries newest first, with pagination.
func (s *AuditStore) List(ctx context.Context, skip, limit int64) ([]models.AuditRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	var recs []models.AuditRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("decode audit entries: %w", err)
	}
	return recs, nil
}
