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

const userCollection = "users"

// MongoUserRepository implements ports.UserRepository on a MongoDB collection.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty"`
	Name                     string             `bson:"name"`
	Email                    string             `bson:"email"`
	PasswordHash             string             `bson:"password_hash"`
	Role                     string             `bson:"role"`
	IsVerified               bool               `bson:"is_verified"`
	VerificationToken        string             `bson:"verification_token,omitempty"`
	VerificationTokenExpires time.Time          `bson:"verification_token_expires,omitempty"`
	ResetPasswordToken       string             `bson:"reset_password_token,omitempty"`
	ResetPasswordExpires     time.Time          `bson:"reset_password_expires,omitempty"`
	LastLogin                time.Time          `bson:"last_login,omitempty"`
	CreatedAt                time.Time          `bson:"created_at"`
	UpdatedAt                time.Time          `bson:"updated_at"`
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := r.coll.InsertOne(ctx, toMongoUser(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByVerificationToken matches only unexpired tokens; an expired token is
// indistinguishable from an unknown one.
func (r *MongoUserRepository) FindByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"verification_token":         token,
		"verification_token_expires": bson.M{"$gt": time.Now().UTC()},
	})
}

func (r *MongoUserRepository) FindByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"reset_password_token":   token,
		"reset_password_expires": bson.M{"$gt": time.Now().UTC()},
	})
}

func (r *MongoUserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var mu mongoUser
		if err := cursor.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, fromMongoUser(&mu))
	}
	return users, cursor.Err()
}

// Update replaces the whole document, which is how token fields get cleared.
func (r *MongoUserRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toMongoUser(user))
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return fromMongoUser(&mu), nil
}

func toMongoUser(u *domain.User) mongoUser {
	mu := mongoUser{
		Name:                     u.Name,
		Email:                    u.Email,
		PasswordHash:             u.PasswordHash,
		Role:                     u.Role,
		IsVerified:               u.IsVerified,
		VerificationToken:        u.VerificationToken,
		VerificationTokenExpires: u.VerificationTokenExpires,
		ResetPasswordToken:       u.ResetPasswordToken,
		ResetPasswordExpires:     u.ResetPasswordExpires,
		LastLogin:                u.LastLogin,
		CreatedAt:                u.CreatedAt,
		UpdatedAt:                u.UpdatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(u.ID); err == nil {
		mu.ID = oid
	}
	return mu
}

func fromMongoUser(mu *mongoUser) *domain.User {
	return &domain.User{
		ID:                       mu.ID.Hex(),
		Name:                     mu.Name,
		Email:                    mu.Email,
		PasswordHash:             mu.PasswordHash,
		Role:                     mu.Role,
		IsVerified:               mu.IsVerified,
		VerificationToken:        mu.VerificationToken,
		VerificationTokenExpires: mu.VerificationTokenExpires,
		ResetPasswordToken:       mu.ResetPasswordToken,
		ResetPasswordExpires:     mu.ResetPasswordExpires,
		LastLogin:                mu.LastLogin,
		CreatedAt:                mu.CreatedAt,
		UpdatedAt:                mu.UpdatedAt,
	}
}
