package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/practicewtf/identity-service/internal/core/domain"
)

const auditCollection = "audit_events"

type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Username  string `bson:"username"`
	Action    string `bson:"action"`
	Result    string `bson:"result"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Username:  event.Username,
		Action:    event.Action,
		Result:    event.Result,
		Timestamp: event.Timestamp.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
