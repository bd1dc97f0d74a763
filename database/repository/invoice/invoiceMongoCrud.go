package invoiceRepo

import (
	"fmt"
	"time"

	"tripay/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new invoice document.
func (r *MongoInvoiceRepo) Create(invoice *models.Invoice) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now()
	}

	_, err := r.coll.InsertOne(ctx, invoice)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// UpdateFields applies a $set update to a single invoice document.
func (r *MongoInvoiceRepo) UpdateFields(id string, fields bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": fields}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update invoice with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("invoice with id %s not found", id)
	}
	return nil
}

// Delete removes an invoice document by its ID.
func (r *MongoInvoiceRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete invoice with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("invoice with id %s not found", id)
	}
	return nil
}
