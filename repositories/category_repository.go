package repositories

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopgram/shopgram_backend/config"
	"github.com/shopgram/shopgram_backend/models"
)

type CategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Client) *CategoryRepository {
	return &CategoryRepository{
		collection: config.GetCollection(db, "categories"),
	}
}

// categoryDoc is the raw database shape with optional fields kept as pointers
type categoryDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ShopID       primitive.ObjectID `bson:"shopId"`
	UserID       primitive.ObjectID `bson:"userId"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description,omitempty"`
	Color        string             `bson:"color,omitempty"`
	Icon         string             `bson:"icon,omitempty"`
	Order        *int               `bson:"order"`
	IsActive     *bool              `bson:"isActive"`
	ProductCount *int               `bson:"productCount"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// normalizeCategory applies the defaulting rules: order 0, isActive true
// unless explicitly false, productCount 0.
func normalizeCategory(doc categoryDoc) models.Category {
	category := models.Category{
		ID:          doc.ID,
		ShopID:      doc.ShopID,
		UserID:      doc.UserID,
		Name:        doc.Name,
		Description: doc.Description,
		Color:       doc.Color,
		Icon:        doc.Icon,
		IsActive:    doc.IsActive == nil || *doc.IsActive,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	if doc.Order != nil {
		category.Order = *doc.Order
	}
	if doc.ProductCount != nil {
		category.ProductCount = *doc.ProductCount
	}
	return category
}

// FetchByShop lists a shop's categories sorted by display order. The _id
// tie-break keeps insertion order stable for equal order values.
func (r *CategoryRepository) FetchByShop(ctx context.Context, shopID, userID primitive.ObjectID) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "_id", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{"shopId": shopID, "userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, normalizeCategory(doc))
	}
	return categories, nil
}

// GetByID fetches one category, scoped to the shop
func (r *CategoryRepository) GetByID(ctx context.Context, shopID, id primitive.ObjectID) (models.Category, error) {
	var doc categoryDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "shopId": shopID}).Decode(&doc)
	if err != nil {
		return models.Category{}, err
	}
	return normalizeCategory(doc), nil
}

// ExistsByName reports whether another category in the shop already uses the
// name. excludeID skips the category being edited.
func (r *CategoryRepository) ExistsByName(ctx context.Context, shopID primitive.ObjectID, name string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"shopId": shopID, "name": name}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	err := r.collection.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Save creates or updates a category. Owning references come from the
// session context. A new document gets createdAt == updatedAt; an update
// refreshes only updatedAt.
func (r *CategoryRepository) Save(ctx context.Context, shopID, userID primitive.ObjectID, category models.Category) (models.Category, error) {
	now := time.Now()
	category.ShopID = shopID
	category.UserID = userID

	if category.ID.IsZero() {
		category.CreatedAt = now
		category.UpdatedAt = now

		result, err := r.collection.InsertOne(ctx, category)
		if err != nil {
			return models.Category{}, err
		}
		category.ID = result.InsertedID.(primitive.ObjectID)
		return category, nil
	}

	update := bson.M{
		"name":        category.Name,
		"description": category.Description,
		"color":       category.Color,
		"icon":        category.Icon,
		"order":       category.Order,
		"isActive":    category.IsActive,
		"updatedAt":   now,
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": category.ID, "shopId": shopID, "userId": userID},
		bson.M{"$set": update},
	)
	if err != nil {
		return models.Category{}, err
	}
	if result.MatchedCount == 0 {
		return models.Category{}, mongo.ErrNoDocuments
	}

	return r.GetByID(ctx, shopID, category.ID)
}

// Delete removes a category. Products referencing its name keep the dangling
// name; there is no cascade.
func (r *CategoryRepository) Delete(ctx context.Context, shopID, userID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "shopId": shopID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RefreshProductCount writes the advisory product counter. Best effort.
func (r *CategoryRepository) RefreshProductCount(ctx context.Context, shopID primitive.ObjectID, categoryName string, count int) {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"shopId": shopID, "name": categoryName},
		bson.M{"$set": bson.M{"productCount": count}},
	)
	if err != nil {
		log.Printf("Failed to refresh product count for category %q: %v", categoryName, err)
	}
}
