package routes

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopgram/shopgram_backend/repositories"
	"github.com/shopgram/shopgram_backend/services"
)

// Deps bundles the shared repositories and services the route groups wire
// their controllers from.
type Deps struct {
	DB          *mongo.Client
	Users       *repositories.UserRepository
	Shops       *repositories.ShopRepository
	Products    *repositories.ProductRepository
	Categories  *repositories.CategoryRepository
	Departments *repositories.DepartmentRepository
	Orders      *repositories.OrderRepository
	Telegram    *services.TelegramService
}

// NewDeps constructs the repository set over a connected Mongo client
func NewDeps(db *mongo.Client) *Deps {
	return &Deps{
		DB:          db,
		Users:       repositories.NewUserRepository(db),
		Shops:       repositories.NewShopRepository(db),
		Products:    repositories.NewProductRepository(db),
		Categories:  repositories.NewCategoryRepository(db),
		Departments: repositories.NewDepartmentRepository(db),
		Orders:      repositories.NewOrderRepository(db),
		Telegram:    services.NewTelegramService(),
	}
}
