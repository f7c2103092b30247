package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

const collectionActors = "actors"

// ActorRepository implements ports.ActorRepository using MongoDB.
type ActorRepository struct {
	col *mongo.Collection
}

func NewActorRepository(db *mongo.Database) *ActorRepository {
	return &ActorRepository{col: db.Collection(collectionActors)}
}

func (r *ActorRepository) FindByUsername(ctx context.Context, username string) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Actor
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrActorNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *ActorRepository) FindByID(ctx context.Context, id string) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Actor
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrActorNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *ActorRepository) Create(ctx context.Context, a *domain.Actor) (*domain.Actor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	existing := r.col.FindOne(ctx, bson.M{"username": a.Username})
	if existing.Err() == nil {
		return nil, domain.ErrActorExists
	}

	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrActorExists
		}
		return nil, fmt.Errorf("create actor: %w", err)
	}
	return a, nil
}

// EnsureIndexes creates the unique username index on the actors collection.
func (r *ActorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := true
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	})
	return err
}
