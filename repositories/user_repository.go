package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopgram/shopgram_backend/config"
	"github.com/shopgram/shopgram_backend/models"
	"github.com/shopgram/shopgram_backend/utils"
)

const userCacheTTL = 10 * time.Minute

type UserRepository struct {
	collection *mongo.Collection
	cache      *redis.Client
}

func NewUserRepository(db *mongo.Client) *UserRepository {
	return &UserRepository{
		collection: config.GetCollection(db, "users"),
		cache:      config.GetRedisClient(),
	}
}

func userCacheKey(telegramID int64) string {
	return fmt.Sprintf("user:tg:%d", telegramID)
}

// GetByID fetches a user by ObjectID
func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, err
}

// GetByTelegramID fetches a user by Telegram ID, read-through cached
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (models.User, error) {
	var user models.User

	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, userCacheKey(telegramID)).Result(); err == nil {
			if err := json.Unmarshal([]byte(cached), &user); err == nil {
				return user, nil
			}
		}
	}

	err := r.collection.FindOne(ctx, bson.M{"telegramId": telegramID}).Decode(&user)
	if err != nil {
		return user, err
	}

	r.cacheUser(ctx, user)
	return user, nil
}

// GetOrCreateFromTelegram finds the user matching a verified Telegram
// identity, creating the record on first login. Profile fields are refreshed
// from Telegram on every login.
func (r *UserRepository) GetOrCreateFromTelegram(ctx context.Context, tg *utils.TelegramUser) (models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"telegramId": tg.ID}).Decode(&user)
	if err == nil {
		update := bson.M{"$set": bson.M{
			"username":  tg.Username,
			"firstName": tg.FirstName,
			"lastName":  tg.LastName,
			"photoUrl":  tg.PhotoURL,
			"updatedAt": time.Now(),
		}}
		if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
			return user, err
		}
		r.invalidate(ctx, tg.ID)
		return r.GetByID(ctx, user.ID)
	}
	if err != mongo.ErrNoDocuments {
		return user, err
	}

	now := time.Now()
	user = models.User{
		TelegramID: tg.ID,
		Username:   tg.Username,
		FirstName:  tg.FirstName,
		LastName:   tg.LastName,
		PhotoURL:   tg.PhotoURL,
		Role:       models.RoleOwner,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return user, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	r.cacheUser(ctx, user)
	return user, nil
}

// UpdateProfile applies the editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req models.UpdateProfileRequest) (models.User, error) {
	update := bson.M{"updatedAt": time.Now()}
	if req.FirstName != "" {
		update["firstName"] = req.FirstName
	}
	if req.LastName != "" {
		update["lastName"] = req.LastName
	}
	if req.Email != "" {
		update["email"] = req.Email
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update})
	if err != nil {
		return models.User{}, err
	}

	user, err := r.GetByID(ctx, userID)
	if err == nil {
		r.invalidate(ctx, user.TelegramID)
	}
	return user, err
}

// SaveBotToken stores the owner's bot credential
func (r *UserRepository) SaveBotToken(ctx context.Context, userID primitive.ObjectID, botToken string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"botToken":  botToken,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return err
	}

	if user, err := r.GetByID(ctx, userID); err == nil {
		r.invalidate(ctx, user.TelegramID)
	}
	return nil
}

// SetShop links a user to the shop they own
func (r *UserRepository) SetShop(ctx context.Context, userID, shopID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"shopId":    shopID,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return err
	}
	if user, errGet := r.GetByID(ctx, userID); errGet == nil {
		r.invalidate(ctx, user.TelegramID)
	}
	return nil
}

// cacheUser stores the JSON form of the user. BotToken is json:"-" so the
// cached copy never carries the credential; token reads must go through
// GetByID.
func (r *UserRepository) cacheUser(ctx context.Context, user models.User) {
	if r.cache == nil {
		return
	}
	if data, err := json.Marshal(user); err == nil {
		r.cache.Set(ctx, userCacheKey(user.TelegramID), data, userCacheTTL)
	}
}

func (r *UserRepository) invalidate(ctx context.Context, telegramID int64) {
	if r.cache == nil {
		return
	}
	r.cache.Del(ctx, userCacheKey(telegramID))
}
