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

type DepartmentRepository struct {
	collection *mongo.Collection
}

func NewDepartmentRepository(db *mongo.Client) *DepartmentRepository {
	return &DepartmentRepository{
		collection: config.GetCollection(db, "departments"),
	}
}

// departmentDoc is the raw database shape with optional fields as pointers
type departmentDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	ShopID            primitive.ObjectID `bson:"shopId"`
	UserID            primitive.ObjectID `bson:"userId"`
	Name              string             `bson:"name"`
	TelegramChatID    string             `bson:"telegramChatId"`
	AdminChatID       string             `bson:"adminChatId,omitempty"`
	Role              string             `bson:"role"`
	Order             *int               `bson:"order"`
	Icon              string             `bson:"icon,omitempty"`
	IsActive          *bool              `bson:"isActive"`
	NotificationTypes []string           `bson:"notificationTypes"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

// normalizeDepartment applies the defaulting rules: order 0, isActive true
// unless explicitly false, notificationTypes never nil.
func normalizeDepartment(doc departmentDoc) models.Department {
	department := models.Department{
		ID:                doc.ID,
		ShopID:            doc.ShopID,
		UserID:            doc.UserID,
		Name:              doc.Name,
		TelegramChatID:    doc.TelegramChatID,
		AdminChatID:       doc.AdminChatID,
		Role:              doc.Role,
		Icon:              doc.Icon,
		IsActive:          doc.IsActive == nil || *doc.IsActive,
		NotificationTypes: doc.NotificationTypes,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
	if doc.Order != nil {
		department.Order = *doc.Order
	}
	if department.NotificationTypes == nil {
		department.NotificationTypes = []string{}
	}
	return department
}

// FetchByShop lists a shop's departments sorted by display order, _id as the
// tie-break for equal order values.
func (r *DepartmentRepository) FetchByShop(ctx context.Context, shopID, userID primitive.ObjectID) ([]models.Department, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "_id", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{"shopId": shopID, "userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []departmentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	departments := make([]models.Department, 0, len(docs))
	for _, doc := range docs {
		departments = append(departments, normalizeDepartment(doc))
	}
	return departments, nil
}

// GetByID fetches one department, scoped to the shop
func (r *DepartmentRepository) GetByID(ctx context.Context, shopID, id primitive.ObjectID) (models.Department, error) {
	var doc departmentDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "shopId": shopID}).Decode(&doc)
	if err != nil {
		return models.Department{}, err
	}
	return normalizeDepartment(doc), nil
}

// FetchForNotification returns the active departments of a shop that accept
// the given notification type.
func (r *DepartmentRepository) FetchForNotification(ctx context.Context, shopID primitive.ObjectID, notifType string) ([]models.Department, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"shopId":   shopID,
		"isActive": bson.M{"$ne": false},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []departmentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	var matching []models.Department
	for _, doc := range docs {
		department := normalizeDepartment(doc)
		if department.WantsNotification(notifType) {
			matching = append(matching, department)
		}
	}
	return matching, nil
}

// Save creates or updates a department. Owning references come from the
// session context. A new document gets createdAt == updatedAt; an update
// refreshes only updatedAt.
func (r *DepartmentRepository) Save(ctx context.Context, shopID, userID primitive.ObjectID, department models.Department) (models.Department, error) {
	now := time.Now()
	department.ShopID = shopID
	department.UserID = userID
	if department.NotificationTypes == nil {
		department.NotificationTypes = []string{}
	}

	if department.ID.IsZero() {
		department.CreatedAt = now
		department.UpdatedAt = now

		result, err := r.collection.InsertOne(ctx, department)
		if err != nil {
			return models.Department{}, err
		}
		department.ID = result.InsertedID.(primitive.ObjectID)
		return department, nil
	}

	update := bson.M{
		"name":              department.Name,
		"telegramChatId":    department.TelegramChatID,
		"adminChatId":       department.AdminChatID,
		"role":              department.Role,
		"order":             department.Order,
		"icon":              department.Icon,
		"isActive":          department.IsActive,
		"notificationTypes": department.NotificationTypes,
		"updatedAt":         now,
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": department.ID, "shopId": shopID, "userId": userID},
		bson.M{"$set": update},
	)
	if err != nil {
		return models.Department{}, err
	}
	if result.MatchedCount == 0 {
		return models.Department{}, mongo.ErrNoDocuments
	}

	return r.GetByID(ctx, shopID, department.ID)
}

// Delete removes a department
func (r *DepartmentRepository) Delete(ctx context.Context, shopID, userID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "shopId": shopID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
