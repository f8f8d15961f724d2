package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopgram/shopgram_backend/config"
	"github.com/shopgram/shopgram_backend/models"
)

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Client) *OrderRepository {
	return &OrderRepository{
		collection: config.GetCollection(db, "orders"),
	}
}

// FetchByShop lists a shop's orders, newest first. status filters when
// non-empty.
func (r *OrderRepository) FetchByShop(ctx context.Context, shopID primitive.ObjectID, status string) ([]models.Order, error) {
	filter := bson.M{"shopId": shopID}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID fetches one order, scoped to the shop
func (r *OrderRepository) GetByID(ctx context.Context, shopID, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "shopId": shopID}).Decode(&order)
	return order, err
}

// UpdateStatus changes an order's status and refreshes updatedAt
func (r *OrderRepository) UpdateStatus(ctx context.Context, shopID, id primitive.ObjectID, status string) (models.Order, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "shopId": shopID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return models.Order{}, err
	}
	if result.MatchedCount == 0 {
		return models.Order{}, mongo.ErrNoDocuments
	}
	return r.GetByID(ctx, shopID, id)
}

// ComputeOrderStats folds a fetched order list into the aggregate block:
// order count, summed totals, and the distinct customer count accumulated
// through a uniqueness set. Runs over the full slice every time; there is no
// stored aggregate to consult.
func ComputeOrderStats(orders []models.Order) models.ShopStats {
	stats := models.ShopStats{TotalOrders: len(orders)}

	seen := make(map[int64]struct{}, len(orders))
	for _, order := range orders {
		stats.TotalRevenue += order.TotalAmount
		if _, ok := seen[order.Customer.TelegramID]; !ok {
			seen[order.Customer.TelegramID] = struct{}{}
			stats.TotalCustomers++
		}
	}

	return stats
}
