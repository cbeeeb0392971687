package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkpress/blog-api/internal/core/domain"
)

const postCollection = "posts"

// MongoPostRepository implements ports.PostRepository on a MongoDB collection.
type MongoPostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{coll: db.Collection(postCollection)}
}

type mongoImage struct {
	URL    string `bson:"url"`
	FileID string `bson:"file_id"`
}

type mongoPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Category    string             `bson:"category"`
	Excerpt     string             `bson:"excerpt"`
	Content     string             `bson:"content"`
	Author      string             `bson:"author"`
	Slug        string             `bson:"slug"`
	IsPublished bool               `bson:"is_published"`
	MainImage   mongoImage         `bson:"main_image"`
	OtherImages []mongoImage       `bson:"other_images,omitempty"`
	Tags        []string           `bson:"tags,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (r *MongoPostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	res, err := r.coll.InsertOne(ctx, toMongoPost(post))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}

	created := *post
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoPostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoPostRepository) FindBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoPostRepository) FindAll(ctx context.Context) ([]*domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []*domain.Post
	for cursor.Next(ctx) {
		var mp mongoPost
		if err := cursor.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, fromMongoPost(&mp))
	}
	return posts, cursor.Err()
}

func (r *MongoPostRepository) Update(ctx context.Context, post *domain.Post) error {
	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toMongoPost(post))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) findOne(ctx context.Context, filter bson.M) (*domain.Post, error) {
	var mp mongoPost
	if err := r.coll.FindOne(ctx, filter).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return fromMongoPost(&mp), nil
}

func toMongoPost(p *domain.Post) mongoPost {
	mp := mongoPost{
		Title:       p.Title,
		Category:    string(p.Category),
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		Author:      p.Author,
		Slug:        p.Slug,
		IsPublished: p.IsPublished,
		MainImage:   mongoImage(p.MainImage),
		Tags:        p.Tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, img := range p.OtherImages {
		mp.OtherImages = append(mp.OtherImages, mongoImage(img))
	}
	if oid, err := primitive.ObjectIDFromHex(p.ID); err == nil {
		mp.ID = oid
	}
	return mp
}

func fromMongoPost(mp *mongoPost) *domain.Post {
	p := &domain.Post{
		ID:          mp.ID.Hex(),
		Title:       mp.Title,
		Category:    domain.PostCategory(mp.Category),
		Excerpt:     mp.Excerpt,
		Content:     mp.Content,
		Author:      mp.Author,
		Slug:        mp.Slug,
		IsPublished: mp.IsPublished,
		MainImage:   domain.PostImage(mp.MainImage),
		Tags:        mp.Tags,
		CreatedAt:   mp.CreatedAt,
		UpdatedAt:   mp.UpdatedAt,
	}
	for _, img := range mp.OtherImages {
		p.OtherImages = append(p.OtherImages, domain.PostImage(img))
	}
	return p
}
