package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopgram/shopgram_backend/config"
	"github.com/shopgram/shopgram_backend/models"
	"github.com/shopgram/shopgram_backend/utils"
)

const shopCacheTTL = 5 * time.Minute

// DefaultCurrency applies when a shop document carries no currency setting
const DefaultCurrency = "USD"

type ShopRepository struct {
	collection *mongo.Collection
	cache      *redis.Client
}

func NewShopRepository(db *mongo.Client) *ShopRepository {
	return &ShopRepository{
		collection: config.GetCollection(db, "shops"),
		cache:      config.GetRedisClient(),
	}
}

// shopDoc is the raw database shape; pointer fields distinguish a missing
// field from an explicit zero so fetch-time defaults can be applied.
type shopDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId"`
	Name        string             `bson:"name"`
	Slug        string             `bson:"slug"`
	Description string             `bson:"description,omitempty"`
	Logo        string             `bson:"logo,omitempty"`
	IsActive    *bool              `bson:"isActive"`
	Settings    *shopSettingsDoc   `bson:"settings"`
	Stats       *models.ShopStats  `bson:"stats"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type shopSettingsDoc struct {
	Currency      string  `bson:"currency,omitempty"`
	TaxRate       float64 `bson:"taxRate,omitempty"`
	BusinessHours string  `bson:"businessHours,omitempty"`
	OrderPolicy   string  `bson:"orderPolicy,omitempty"`
}

// normalizeShop converts a raw document into the API model, applying the
// defaulting rules: isActive true unless explicitly false, currency USD.
func normalizeShop(doc shopDoc) models.Shop {
	shop := models.Shop{
		ID:          doc.ID,
		UserID:      doc.UserID,
		Name:        doc.Name,
		Slug:        doc.Slug,
		Description: doc.Description,
		Logo:        doc.Logo,
		IsActive:    doc.IsActive == nil || *doc.IsActive,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}

	shop.Settings = models.ShopSettings{Currency: DefaultCurrency}
	if doc.Settings != nil {
		shop.Settings.TaxRate = doc.Settings.TaxRate
		shop.Settings.BusinessHours = doc.Settings.BusinessHours
		shop.Settings.OrderPolicy = doc.Settings.OrderPolicy
		if doc.Settings.Currency != "" {
			shop.Settings.Currency = doc.Settings.Currency
		}
	}

	if doc.Stats != nil {
		shop.Stats = *doc.Stats
	}

	return shop
}

func shopCacheKey(id primitive.ObjectID) string {
	return fmt.Sprintf("shop:%s", id.Hex())
}

// FetchByOwner lists the shops owned by a user, newest first
func (r *ShopRepository) FetchByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Shop, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []shopDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	shops := make([]models.Shop, 0, len(docs))
	for _, doc := range docs {
		shops = append(shops, normalizeShop(doc))
	}
	return shops, nil
}

// GetByID fetches a shop by id, read-through cached
func (r *ShopRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.Shop, error) {
	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, shopCacheKey(id)).Result(); err == nil {
			var shop models.Shop
			if err := json.Unmarshal([]byte(cached), &shop); err == nil {
				return shop, nil
			}
		}
	}

	var doc shopDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return models.Shop{}, err
	}

	shop := normalizeShop(doc)
	if r.cache != nil {
		if data, err := json.Marshal(shop); err == nil {
			r.cache.Set(ctx, shopCacheKey(id), data, shopCacheTTL)
		}
	}
	return shop, nil
}

// GetOwned fetches a shop and verifies tenant ownership in the same filter
func (r *ShopRepository) GetOwned(ctx context.Context, id, userID primitive.ObjectID) (models.Shop, error) {
	var doc shopDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&doc)
	if err != nil {
		return models.Shop{}, err
	}
	return normalizeShop(doc), nil
}

// GetBySlug fetches a shop by its slug
func (r *ShopRepository) GetBySlug(ctx context.Context, slug string) (models.Shop, error) {
	var doc shopDoc
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if err != nil {
		return models.Shop{}, err
	}
	return normalizeShop(doc), nil
}

// Save creates or updates a shop for the owner. A new shop gets a slug
// derived from its name, suffixed until unique. An update refreshes only
// updatedAt, never createdAt or the slug.
func (r *ShopRepository) Save(ctx context.Context, userID primitive.ObjectID, req models.SaveShopRequest) (models.Shop, error) {
	now := time.Now()

	if req.ID == "" {
		slug, err := r.uniqueSlug(ctx, utils.Slugify(req.Name))
		if err != nil {
			return models.Shop{}, err
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		settings := req.Settings
		if settings.Currency == "" {
			settings.Currency = DefaultCurrency
		}

		shop := models.Shop{
			UserID:      userID,
			Name:        req.Name,
			Slug:        slug,
			Description: req.Description,
			IsActive:    isActive,
			Settings:    settings,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		result, err := r.collection.InsertOne(ctx, shop)
		if err != nil {
			return models.Shop{}, err
		}
		shop.ID = result.InsertedID.(primitive.ObjectID)
		return shop, nil
	}

	objectID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		return models.Shop{}, fmt.Errorf("invalid shop id: %w", err)
	}

	update := bson.M{
		"name":        req.Name,
		"description": req.Description,
		"settings":    req.Settings,
		"updatedAt":   now,
	}
	if req.IsActive != nil {
		update["isActive"] = *req.IsActive
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "userId": userID},
		bson.M{"$set": update},
	)
	if err != nil {
		return models.Shop{}, err
	}
	if result.MatchedCount == 0 {
		return models.Shop{}, mongo.ErrNoDocuments
	}

	r.invalidate(ctx, objectID)
	return r.GetOwned(ctx, objectID, userID)
}

// UpdateLogo stores the uploaded logo URL
func (r *ShopRepository) UpdateLogo(ctx context.Context, id, userID primitive.ObjectID, logoURL string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"logo": logoURL, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	r.invalidate(ctx, id)
	return nil
}

// Delete removes a shop owned by the user. Products, categories, departments
// and orders referencing it are left in place (no cascade).
func (r *ShopRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	r.invalidate(ctx, id)
	return nil
}

// RefreshStats writes the advisory stats block. Best effort: callers treat
// the stored values as hints, the stats endpoint recomputes from source.
func (r *ShopRepository) RefreshStats(ctx context.Context, id primitive.ObjectID, stats models.ShopStats) {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"stats": stats}},
	)
	if err != nil {
		log.Printf("Failed to refresh stats for shop %s: %v", id.Hex(), err)
		return
	}
	r.invalidate(ctx, id)
}

// RefreshProductCount updates only the advisory product counter, leaving the
// rest of the stats block untouched.
func (r *ShopRepository) RefreshProductCount(ctx context.Context, id primitive.ObjectID, count int) {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"stats.totalProducts": count}},
	)
	if err != nil {
		log.Printf("Failed to refresh product count for shop %s: %v", id.Hex(), err)
		return
	}
	r.invalidate(ctx, id)
}

// uniqueSlug appends -2, -3, ... until the slug has no collision
func (r *ShopRepository) uniqueSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "shop"
	}

	slug := base
	for i := 2; ; i++ {
		err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Err()
		if err == mongo.ErrNoDocuments {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (r *ShopRepository) invalidate(ctx context.Context, id primitive.ObjectID) {
	if r.cache == nil {
		return
	}
	r.cache.Del(ctx, shopCacheKey(id))
}
