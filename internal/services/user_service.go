package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskforge/taskforge/internal/apperr"
	"github.com/taskforge/taskforge/internal/auth"
	"github.com/taskforge/taskforge/internal/database"
	"github.com/taskforge/taskforge/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// UserService provides business logic for user accounts.
type UserService struct {
	users  *mongo.Collection
	hasher *auth.PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(db *mongo.Database, hasher *auth.PasswordHasher) *UserService {
	return &UserService{
		users:  db.Collection(database.UsersCollection),
		hasher: hasher,
	}
}

// Register creates a new user, hashing their password. Uniqueness of
// username and email is checked best effort before insert; the unique index
// is the authority, so a duplicate-key race is reclassified here instead of
// leaking the store's error shape.
func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	filter := bson.M{"$or": bson.A{bson.M{"username": username}, bson.M{"email": email}}}
	var existing models.User
	err := s.users.FindOne(ctx, filter).Decode(&existing)
	switch {
	case err == nil:
		if existing.Username == username {
			return models.User{}, apperr.Conflict("Username is already taken")
		}
		return models.User{}, apperr.Conflict("Email is already registered")
	case !errors.Is(err, mongo.ErrNoDocuments):
		return models.User{}, apperr.Internal(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}

	now := time.Now().UTC()
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := s.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, apperr.Conflict("Username or email is already taken")
		}
		return models.User{}, apperr.Internal(err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	// Never hand the hash back to the caller.
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. The failure message does not
// distinguish an unknown username from a wrong password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperr.AuthInvalid("Invalid credentials")
		}
		return models.User{}, apperr.Internal(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return models.User{}, apperr.AuthInvalid("Invalid credentials")
	}

	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by id. The password hash is excluded
// at the projection level, not just stripped afterwards.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, apperr.MalformedID("Invalid user id")
	}

	opts := options.FindOne().SetProjection(bson.M{"passwordHash": 0})
	var user models.User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, apperr.Internal(err)
	}
	return user, nil
}
