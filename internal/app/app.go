package app

import (
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gadgetwall/backoffice/internal/adapters/httpserver"
	"github.com/gadgetwall/backoffice/internal/adapters/llm/gemini"
	"github.com/gadgetwall/backoffice/internal/adapters/llm/openaichat"
	"github.com/gadgetwall/backoffice/internal/adapters/repo/postgres"
	"github.com/gadgetwall/backoffice/internal/domain"
	"github.com/gadgetwall/backoffice/internal/usecase"
)

type App struct {
	DB          *gorm.DB
	CatalogUC   *usecase.CatalogUC
	ImportUC    *usecase.ImportUC
	OrderUC     *usecase.OrderUC
	AssistantUC *usecase.AssistantUC
	LeadsUC     *usecase.LeadsUC
	AuthUC      *usecase.AuthUC
}

func NewApp(db *gorm.DB) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	catRepo := postgres.NewCategoryRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	userRepo := postgres.NewUserRepo(db)

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("API_KEY")
	}
	geminiClient := gemini.New(apiKey, os.Getenv("CHAT_MODEL"))

	var chatModel domain.ChatModel = geminiClient
	if strings.EqualFold(os.Getenv("LLM_PROVIDER"), "openai") {
		chatModel = openaichat.New(os.Getenv("OPENAI_API_KEY"), os.Getenv("CHAT_MODEL"))
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@gadgetwall.pt"
	}
	adminPass := os.Getenv("ADMIN_PASSWORD")
	if adminPass == "" {
		adminPass = "admin"
	}

	app := &App{DB: db}
	app.CatalogUC = &usecase.CatalogUC{Products: prodRepo, Categories: catRepo}
	app.ImportUC = &usecase.ImportUC{Products: prodRepo}
	app.OrderUC = &usecase.OrderUC{Orders: orderRepo}
	app.AssistantUC = &usecase.AssistantUC{Model: chatModel, Products: prodRepo, Orders: orderRepo}
	app.LeadsUC = &usecase.LeadsUC{Finder: geminiClient}
	app.AuthUC = &usecase.AuthUC{Users: userRepo, AdminEmail: adminEmail, AdminPassword: adminPass}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.CatalogUC, a.ImportUC, a.OrderUC, a.AssistantUC, a.LeadsUC, a.AuthUC)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Product{}, &domain.Category{}, &domain.Order{}, &domain.OrderItem{}, &domain.User{},
	); err != nil {
		return err
	}

	var count int64
	if err := a.DB.Model(&domain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		seedCatalog(a.DB)
	}
	return nil
}

// seedCatalog loads the launch catalog plus one category row per distinct
// product category, in first-seen order.
func seedCatalog(db *gorm.DB) {
	prods := []domain.Product{
		{ID: uuid.New(), Name: "iPhone 15 128GB", Category: "Phone", Price: 829.00, Brand: "Apple", Description: "The latest iPhone with Dynamic Island.", Stock: 12, Barcode: "194253702444"},
		{ID: uuid.New(), Name: "Samsung Galaxy S24", Category: "Phone", Price: 799.00, Brand: "Samsung", Description: "Galaxy AI integrated for perfect photos.", Stock: 8, Barcode: "8806095307524"},
		{ID: uuid.New(), Name: "Xiaomi Redmi Note 13 Pro", Category: "Phone", Price: 349.00, Brand: "Xiaomi", Description: "Excellent value-for-money proposition.", Stock: 25, Barcode: "6941812753331"},
		{ID: uuid.New(), Name: "iPhone 17 Pro Max 256GB", Category: "Phone", Price: 1499.00, Brand: "Apple", Description: "The ultimate flagship with titanium build and pro camera system.", Stock: 5, Barcode: "194253800001"},
		{ID: uuid.New(), Name: "Silicone Case MagSafe (iPhone 15/17)", Category: "Case", Price: 59.00, Brand: "Apple", Description: "Premium protection with integrated magnets.", Stock: 40, CompatibleModels: []string{"iPhone 15", "iPhone 17 Pro Max"}, Barcode: "194253696552"},
		{ID: uuid.New(), Name: "25W USB-C Fast Charger", Category: "Charger", Price: 24.90, Brand: "Samsung", Description: "Safe ultra-fast charging.", Stock: 100, Barcode: "8806090973311"},
		{ID: uuid.New(), Name: "USB-C to Lightning Cable 1m", Category: "Cable", Price: 19.90, Brand: "Generic", Description: "High durability braided cable.", Stock: 200, Barcode: "1234567890123"},
		{ID: uuid.New(), Name: "Sony WF-1000XM5 Earbuds", Category: "Earbuds", Price: 299.00, Brand: "Sony", Description: "Best noise cancellation on the market.", Stock: 5, Barcode: "4548736144002"},
		{ID: uuid.New(), Name: "Power Bank 20000mAh", Category: "PowerBank", Price: 45.00, Brand: "Anker", Description: "Capacity for 4 full charges.", Stock: 15, Barcode: "0848061021485"},
		{ID: uuid.New(), Name: "Tempered Glass Screen Protector", Category: "ScreenProtector", Price: 14.99, Brand: "Spigen", Description: "9H hardness against scratches.", Stock: 50, CompatibleModels: []string{"iPhone 15", "Samsung S24", "iPhone 17 Pro Max"}, Barcode: "8809896752008"},
	}
	seen := map[string]bool{}
	for i := range prods {
		if prods[i].SerialNumbers == nil {
			prods[i].SerialNumbers = []string{}
		}
		db.Create(&prods[i])
		if !seen[prods[i].Category] {
			seen[prods[i].Category] = true
			db.Create(&domain.Category{ID: uuid.New(), Name: prods[i].Category})
		}
	}
}
