package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopgram/shopgram_backend/config"
	"github.com/shopgram/shopgram_backend/models"
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Client) *ProductRepository {
	return &ProductRepository{
		collection: config.GetCollection(db, "products"),
	}
}

// productDoc is the raw database shape; pointer fields distinguish a missing
// field from an explicit zero so fetch-time defaults can be applied.
type productDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	ShopID            primitive.ObjectID `bson:"shopId"`
	Name              string             `bson:"name"`
	Description       string             `bson:"description,omitempty"`
	Price             float64            `bson:"price"`
	Stock             *int               `bson:"stock"`
	Category          string             `bson:"category,omitempty"`
	SKU               string             `bson:"sku,omitempty"`
	Images            []string           `bson:"images"`
	IsActive          *bool              `bson:"isActive"`
	LowStockThreshold *int               `bson:"lowStockThreshold"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

// normalizeProduct applies the defaulting rules: stock 0, isActive true
// unless explicitly false, threshold 5, images never nil.
func normalizeProduct(doc productDoc) models.Product {
	product := models.Product{
		ID:                doc.ID,
		ShopID:            doc.ShopID,
		Name:              doc.Name,
		Description:       doc.Description,
		Price:             doc.Price,
		Category:          doc.Category,
		SKU:               doc.SKU,
		Images:            doc.Images,
		IsActive:          doc.IsActive == nil || *doc.IsActive,
		LowStockThreshold: models.DefaultLowStockThreshold,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}

	if doc.Stock != nil && *doc.Stock > 0 {
		product.Stock = *doc.Stock
	}
	if doc.LowStockThreshold != nil {
		product.LowStockThreshold = *doc.LowStockThreshold
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	return product
}

// FetchByShop lists a shop's products, newest first
func (r *ProductRepository) FetchByShop(ctx context.Context, shopID primitive.ObjectID) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"shopId": shopID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, normalizeProduct(doc))
	}
	return products, nil
}

// GetByID fetches one product, scoped to the shop
func (r *ProductRepository) GetByID(ctx context.Context, shopID, id primitive.ObjectID) (models.Product, error) {
	var doc productDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "shopId": shopID}).Decode(&doc)
	if err != nil {
		return models.Product{}, err
	}
	return normalizeProduct(doc), nil
}

// Save creates or updates a product. The shop reference always comes from
// the session-scoped shopID, never from the payload. A new document gets
// createdAt == updatedAt; an update refreshes only updatedAt.
func (r *ProductRepository) Save(ctx context.Context, shopID primitive.ObjectID, product models.Product) (models.Product, error) {
	now := time.Now()
	product.ShopID = shopID
	if product.Stock < 0 {
		product.Stock = 0
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	if product.ID.IsZero() {
		product.CreatedAt = now
		product.UpdatedAt = now
		if product.LowStockThreshold == 0 {
			product.LowStockThreshold = models.DefaultLowStockThreshold
		}

		result, err := r.collection.InsertOne(ctx, product)
		if err != nil {
			return models.Product{}, err
		}
		product.ID = result.InsertedID.(primitive.ObjectID)
		return product, nil
	}

	update := bson.M{
		"name":              product.Name,
		"description":       product.Description,
		"price":             product.Price,
		"stock":             product.Stock,
		"category":          product.Category,
		"sku":               product.SKU,
		"images":            product.Images,
		"isActive":          product.IsActive,
		"lowStockThreshold": product.LowStockThreshold,
		"updatedAt":         now,
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": product.ID, "shopId": shopID},
		bson.M{"$set": update},
	)
	if err != nil {
		return models.Product{}, err
	}
	if result.MatchedCount == 0 {
		return models.Product{}, mongo.ErrNoDocuments
	}

	return r.GetByID(ctx, shopID, product.ID)
}

// AddImage appends an uploaded image URL and refreshes updatedAt
func (r *ProductRepository) AddImage(ctx context.Context, shopID, id primitive.ObjectID, imageURL string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "shopId": shopID},
		bson.M{
			"$push": bson.M{"images": imageURL},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a product. No other document is touched.
func (r *ProductRepository) Delete(ctx context.Context, shopID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "shopId": shopID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountActive counts a shop's active products
func (r *ProductRepository) CountActive(ctx context.Context, shopID primitive.ObjectID) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"shopId": shopID,
		"isActive": bson.M{"$ne": false},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return int(count), nil
}

// CountByCategoryName counts a shop's products referencing a category name
func (r *ProductRepository) CountByCategoryName(ctx context.Context, shopID primitive.ObjectID, categoryName string) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"shopId":   shopID,
		"category": categoryName,
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
