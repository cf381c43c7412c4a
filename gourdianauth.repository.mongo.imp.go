// File: gourdianauth.repository.mongo.imp.go

package gourdianauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoRefreshCollectionName = "refresh_tokens"

// refreshTokenDocument represents a refresh token entry in MongoDB
type refreshTokenDocument struct {
	TokenHash string    `bson:"token_hash"`
	SubjectID string    `bson:"subject_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

// MongoRefreshTokenRepository is a MongoDB-backed implementation of
// RefreshTokenRepository. Expired entries are reaped by a TTL index on
// expires_at.
type MongoRefreshTokenRepository struct {
	collection *mongo.Collection
}

// NewMongoRefreshTokenRepository creates a new MongoDB-based refresh token repository
func NewMongoRefreshTokenRepository(db *mongo.Database) (*MongoRefreshTokenRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Client().Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb connection failed: %w", err)
	}

	collection := db.Collection(mongoRefreshCollectionName)

	if err := createRefreshTokenIndexes(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return &MongoRefreshTokenRepository{
		collection: collection,
	}, nil
}

// createRefreshTokenIndexes creates necessary indexes for optimal performance
func createRefreshTokenIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token_hash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "subject_id", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create refresh token indexes: %w", err)
	}

	return nil
}

// SaveRefreshToken records a refresh token for the given subject by storing its hash
func (r *MongoRefreshTokenRepository) SaveRefreshToken(ctx context.Context, subjectID, token string, ttl time.Duration) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if subjectID == "" {
		return fmt.Errorf("subject ID cannot be empty")
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	tokenHash := hashToken(token)
	doc := refreshTokenDocument{
		TokenHash: tokenHash,
		SubjectID: subjectID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// The random token value collided with an earlier entry; refresh it
			filter := bson.M{"token_hash": tokenHash}
			update := bson.M{
				"$set": bson.M{
					"subject_id": subjectID,
					"expires_at": doc.ExpiresAt,
				},
			}
			if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
				return fmt.Errorf("failed to update refresh token: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

// LookupRefreshToken returns the subject a live refresh token belongs to
func (r *MongoRefreshTokenRepository) LookupRefreshToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token cannot be empty")
	}

	filter := bson.M{
		"token_hash": hashToken(token),
		"expires_at": bson.M{"$gt": time.Now()},
	}

	var doc refreshTokenDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrRefreshTokenNotFound
		}
		return "", fmt.Errorf("mongodb error: %w", err)
	}

	return doc.SubjectID, nil
}

// RevokeRefreshToken removes a refresh token by its hash
func (r *MongoRefreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	filter := bson.M{"token_hash": hashToken(token)}
	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("mongodb error: %w", err)
	}

	return nil
}

// Close disconnects the underlying MongoDB client
func (r *MongoRefreshTokenRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.collection.Database().Client().Disconnect(ctx)
}
