package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

const (
	auditCollection    = "audit_logs"
	countersCollection = "counters"
)

// auditDocument is the stored shape of one audit entry. _id is a sequential
// integer so entries keep the same identity they would have in SQL.
type auditDocument struct {
	ID          int64     `bson:"_id"`
	EntityType  string    `bson:"entity_type"`
	EntityID    int64     `bson:"entity_id"`
	Action      string    `bson:"action"`
	ActorUserID int64     `bson:"actor_user_id"`
	ActorRole   string    `bson:"actor_role"`
	Summary     *string   `bson:"summary,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// EnsureIndexes creates the index backing newest-first listing.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(auditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}

// Insert assigns the next sequence number to entry and stores it.
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditLog) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	doc := auditDocument{
		ID:          id,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Action:      entry.Action,
		ActorUserID: entry.ActorUserID,
		ActorRole:   string(entry.ActorRole),
		Summary:     entry.Summary,
		CreatedAt:   entry.CreatedAt.UTC(),
	}
	if _, err := r.db.Collection(auditCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	entry.ID = id
	return nil
}

// List returns entries newest first.
func (r *AuditRepository) List(ctx context.Context, offset, limit int) ([]domain.AuditLog, int64, error) {
	coll := r.db.Collection(auditCollection)

	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find audit logs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []auditDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode audit logs: %w", err)
	}

	out := make([]domain.AuditLog, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.AuditLog{
			ID:          d.ID,
			EntityType:  d.EntityType,
			EntityID:    d.EntityID,
			Action:      d.Action,
			ActorUserID: d.ActorUserID,
			ActorRole:   domain.Role(d.ActorRole),
			Summary:     d.Summary,
			CreatedAt:   d.CreatedAt,
		})
	}
	return out, total, nil
}

// nextID atomically increments the audit_logs counter.
func (r *AuditRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": auditCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("audit sequence: %w", err)
	}
	return counter.Seq, nil
}
