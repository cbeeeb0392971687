package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inkpress/blog-api/internal/core/domain"
)

const subscriberCollection = "newsletter_subscribers"

// MongoNewsletterRepository implements ports.NewsletterRepository.
type MongoNewsletterRepository struct {
	coll *mongo.Collection
}

func NewNewsletterRepository(db *mongo.Database) *MongoNewsletterRepository {
	return &MongoNewsletterRepository{coll: db.Collection(subscriberCollection)}
}

type mongoSubscriber struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *MongoNewsletterRepository) Create(ctx context.Context, sub *domain.Subscriber) (*domain.Subscriber, error) {
	doc := mongoSubscriber{Email: sub.Email, CreatedAt: sub.CreatedAt}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("insert subscriber: %w", err)
	}

	created := *sub
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// FindByEmail returns (nil, nil) when the email is not on the list.
func (r *MongoNewsletterRepository) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	var ms mongoSubscriber
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	return &domain.Subscriber{ID: ms.ID.Hex(), Email: ms.Email, CreatedAt: ms.CreatedAt}, nil
}

func (r *MongoNewsletterRepository) FindAll(ctx context.Context) ([]*domain.Subscriber, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find subscribers: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []*domain.Subscriber
	for cursor.Next(ctx) {
		var ms mongoSubscriber
		if err := cursor.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode subscriber: %w", err)
		}
		subs = append(subs, &domain.Subscriber{ID: ms.ID.Hex(), Email: ms.Email, CreatedAt: ms.CreatedAt})
	}
	return subs, cursor.Err()
}
