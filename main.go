package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	productcontroller "github.com/NickVeles/portfolio-ecommerce/controllers/product"
	"github.com/NickVeles/portfolio-ecommerce/models"
	"github.com/NickVeles/portfolio-ecommerce/payments"
	"github.com/NickVeles/portfolio-ecommerce/routes"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Payment provider client
	paymentsCfg, err := payments.ConfigFromEnv()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	pc := payments.NewClient(paymentsCfg)

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, db, pc)

	// Mirror the provider catalog on boot so product pages are never empty
	go syncCatalogAtStartup(db, pc)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// syncCatalogAtStartup mirrors the provider catalog once on boot, retrying
// a few times so a slow provider does not leave the store empty.
func syncCatalogAtStartup(db *gorm.DB, pc *payments.Client) {
	for attempt := 1; attempt <= 3; attempt++ {
		if _, err := productcontroller.SyncCatalog(context.Background(), db, pc); err != nil {
			log.Printf("❌ Catalog sync attempt %d failed: %v", attempt, err)
			time.Sleep(time.Duration(attempt) * 10 * time.Second)
			continue
		}
		return
	}
	log.Println("❌ Giving up on startup catalog sync; use POST /admin/catalog/sync")
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}
