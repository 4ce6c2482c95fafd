package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// AuditCollection es la colección donde se guardan los eventos.
const AuditCollection = "auditoria"

var _ repository.AuditRepository = (*AuditRepository)(nil)

type auditDocument struct {
	ID        string    `bson:"_id"`
	CompanyID string    `bson:"company_id"`
	Action    string    `bson:"acao"`
	Details   string    `bson:"detalhes"`
	UserID    string    `bson:"user_id,omitempty"`
	UserEmail string    `bson:"user_email,omitempty"`
	CreatedAt time.Time `bson:"timestamp"`
}

func toDocument(e *entity.AuditEvent) auditDocument {
	return auditDocument{
		ID:        e.ID,
		CompanyID: e.CompanyID,
		Action:    e.Action,
		Details:   e.Details,
		UserID:    e.UserID,
		UserEmail: e.UserEmail,
		CreatedAt: e.CreatedAt,
	}
}

func (d auditDocument) toEntity() entity.AuditEvent {
	return entity.AuditEvent{
		ID:        d.ID,
		CompanyID: d.CompanyID,
		Action:    d.Action,
		Details:   d.Details,
		UserID:    d.UserID,
		UserEmail: d.UserEmail,
		CreatedAt: d.CreatedAt,
	}
}

// AuditRepository guarda la auditoría en MongoDB.
type AuditRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewAuditRepository conecta, verifica con ping y asegura el índice (company_id, timestamp).
func NewAuditRepository(ctx context.Context, uri, dbName string) (*AuditRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	coll := client.Database(dbName).Collection(AuditCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create audit index: %w", err)
	}
	return &AuditRepository{client: client, coll: coll}, nil
}

func (r *AuditRepository) Insert(ctx context.Context, e *entity.AuditEvent) error {
	if _, err := r.coll.InsertOne(ctx, toDocument(e)); err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

// List devuelve los eventos más recientes primero.
func (r *AuditRepository) List(ctx context.Context, companyID string, limit, offset int) ([]entity.AuditEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.M{"company_id": companyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []auditDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode audit events: %w", err)
	}
	out := make([]entity.AuditEvent, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// Close cierra la conexión con MongoDB.
func (r *AuditRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
