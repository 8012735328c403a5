package account

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UsersCollection is where accounts are stored.
const UsersCollection = "users"

// Storage persists user accounts.
type Storage interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate, at time.Time) (*User, error)
}

// DatabaseProvider hands out the application database, connecting on demand.
// mongo.Manager satisfies it.
type DatabaseProvider interface {
	Database(ctx context.Context, name string) (*mongo.Database, error)
}

// MongoStorage implements Storage on the users collection. The database is
// resolved per call so a reconnect between requests is picked up.
type MongoStorage struct {
	db DatabaseProvider
}

// NewMongoStorage creates a MongoStorage.
func NewMongoStorage(db DatabaseProvider) *MongoStorage {
	return &MongoStorage{db: db}
}

func (s *MongoStorage) users(ctx context.Context) (*mongo.Collection, error) {
	db, err := s.db.Database(ctx, "")
	if err != nil {
		return nil, err
	}
	return db.Collection(UsersCollection), nil
}

// EnsureIndexes creates the unique email index.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	coll, err := s.users(ctx)
	if err != nil {
		return err
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

func (s *MongoStorage) CreateUser(ctx context.Context, u *User) error {
	coll, err := s.users(ctx)
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

func (s *MongoStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoStorage) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStorage) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate, at time.Time) (*User, error) {
	coll, err := s.users(ctx)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": at}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.ProfileImage != nil {
		set["profile_image"] = *upd.ProfileImage
	}

	var u User
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStorage) findOne(ctx context.Context, filter bson.M) (*User, error) {
	coll, err := s.users(ctx)
	if err != nil {
		return nil, err
	}
	var u User
	if err := coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
