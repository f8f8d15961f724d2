package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/shopgram/shopgram_backend/config"
	"github.com/shopgram/shopgram_backend/models"
)

// SaveNotification saves an in-app notification to the database
func SaveNotification(db *mongo.Client, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SendEmail sends a plain-text email through the configured SMTP relay
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	if smtpHost == "" {
		return fmt.Errorf("SMTP_HOST is not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// NotifyLowStock records an in-app notification and emails the shop owner
// when a product drops to or below its threshold. Best effort: failures are
// logged, never propagated to the caller.
func NotifyLowStock(db *mongo.Client, owner models.User, shop models.Shop, product models.Product) {
	title := "Low stock alert"
	message := fmt.Sprintf("%s is down to %d in stock (threshold %d).",
		product.Name, product.Stock, product.LowStockThreshold)

	err := SaveNotification(db, owner.ID, title, message, models.NotificationTypeLowStock, map[string]interface{}{
		"productId": product.ID.Hex(),
		"shopId":    shop.ID.Hex(),
		"stock":     product.Stock,
	})
	if err != nil {
		log.Printf("Failed to save low stock notification: %v", err)
	}

	if owner.Email == "" {
		return
	}

	body := fmt.Sprintf("Dear %s,\n\nProduct %q in shop %q is running low: %d left (threshold %d).\n\nRestock it from the dashboard.",
		owner.FirstName, product.Name, shop.Name, product.Stock, product.LowStockThreshold)
	if err := SendEmail(owner.Email, title, body); err != nil {
		log.Printf("Failed to send low stock email to %s: %v", owner.Email, err)
	}
}
