package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kannammal-agro/pricing-system/internal/core/ports"
)

const collectionApprovalEvents = "approval_events"

// AuditRepository persists one document per successful workflow transition.
type AuditRepository struct {
	db *mongo.Database
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertTransition(ctx context.Context, e *ports.ApprovalEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"submission_id": e.SubmissionID,
		"actor_id":      e.ActorID,
		"from_status":   string(e.FromStatus),
		"to_status":     string(e.ToStatus),
		"new_version":   e.NewVersion,
		"at":            e.At.UTC(),
		"recorded_at":   time.Now().UTC(),
	}

	_, err := r.db.Collection(collectionApprovalEvents).InsertOne(ctx, doc)
	return err
}
