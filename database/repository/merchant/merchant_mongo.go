package merchantRepo

import (
	"context"
	"fmt"
	"time"

	"tripay/database"
	"tripay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MerchantRepository defines read access to merchants. The payment core only
// resolves the merchant side of an invoice; approval lives elsewhere.
type MerchantRepository interface {
	GetByID(id string) (*models.Merchant, error)
}

// MongoMerchantRepo implements MerchantRepository using MongoDB.
type MongoMerchantRepo struct {
	coll *mongo.Collection
}

// NewMongoMerchantRepo creates a new instance of MerchantRepository using MongoDB.
func NewMongoMerchantRepo() MerchantRepository {
	coll := database.MongoClient.Database("tripay").Collection("merchants")
	return &MongoMerchantRepo{coll: coll}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// GetByID retrieves a merchant by its unique ID.
func (r *MongoMerchantRepo) GetByID(id string) (*models.Merchant, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var merchant models.Merchant
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&merchant); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch merchant with id %s: %w", id, err)
	}
	return &merchant, nil
}
