package account

import (
	"context"
	"time"

	"customer-portal-svc/src/clients"
	"customer-portal-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Repository interface {
	MarkDeleted(ctx context.Context, userID string, deletedAt time.Time) error
}

type profileRepository struct {
	collection *mongo.Collection
}

func NewRepository(db *clients.MongoDB, collectionName string) Repository {
	return &profileRepository{
		collection: db.Database.Collection(collectionName),
	}
}

// MarkDeleted flags the portal profile of userID as deleted.
func (r *profileRepository) MarkDeleted(ctx context.Context, userID string, deletedAt time.Time) error {
	filter := bson.M{
		"user_id":    userID,
		"deleted_at": bson.M{"$exists": false},
	}

	update := bson.M{
		"$set": bson.M{
			"status":     StatusDeleted,
			"deleted_at": deletedAt,
			"updated_at": deletedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to mark profile deleted")
		return models.ErrDatabaseUpdate
	}

	if result.MatchedCount == 0 {
		return models.ErrRecordNotFound
	}

	logrus.WithField("user_id", userID).Debug("Profile marked deleted")
	return nil
}
