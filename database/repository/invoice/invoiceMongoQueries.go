package invoiceRepo

import (
	"fmt"
	"time"

	"tripay/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ListOrdersByCustomer returns all invoices for a customer with the
// referenced product joined in, newest first.
func (r *MongoInvoiceRepo) ListOrdersByCustomer(customerID string) ([]models.InvoiceOrder, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"customer_id": customerID}},
		{"$lookup": bson.M{
			"from":         "products",
			"localField":   "product_id",
			"foreignField": "id",
			"as":           "product",
		}},
		{"$sort": bson.M{"created_at": -1}},
	}
	return r.aggregateOrders(pipeline)
}

// ListReviewableByCustomer returns the customer's paid invoices with the
// product and any attached review joined in, newest first.
func (r *MongoInvoiceRepo) ListReviewableByCustomer(customerID string) ([]models.InvoiceOrder, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"customer_id": customerID,
			"status":      models.InvoiceStatusPaid,
		}},
		{"$lookup": bson.M{
			"from":         "products",
			"localField":   "product_id",
			"foreignField": "id",
			"as":           "product",
		}},
		{"$lookup": bson.M{
			"from":         "reviews",
			"localField":   "id",
			"foreignField": "invoice_id",
			"as":           "review",
		}},
		{"$sort": bson.M{"created_at": -1}},
	}
	return r.aggregateOrders(pipeline)
}

func (r *MongoInvoiceRepo) aggregateOrders(pipeline []bson.M) ([]models.InvoiceOrder, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.InvoiceOrder
	for cursor.Next(ctx) {
		var order models.InvoiceOrder
		if err := cursor.Decode(&order); err != nil {
			return nil, fmt.Errorf("failed to decode invoice order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// ListStaleUnpaid returns unpaid invoices created before the cutoff that
// already hold a gateway order reference.
func (r *MongoInvoiceRepo) ListStaleUnpaid(cutoff time.Time) ([]models.Invoice, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":        models.InvoiceStatusUnpaid,
		"created_at":    bson.M{"$lt": cutoff},
		"response_code": bson.M{"$ne": nil},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale unpaid invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var invoices []models.Invoice
	for cursor.Next(ctx) {
		var inv models.Invoice
		if err := cursor.Decode(&inv); err != nil {
			return nil, fmt.Errorf("failed to decode invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}
