package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/tahirfruitchaat/pos-api/cache"
	adminController "github.com/tahirfruitchaat/pos-api/controllers/admin"
	saleControllers "github.com/tahirfruitchaat/pos-api/controllers/sale"
	"github.com/tahirfruitchaat/pos-api/gateway"
	"github.com/tahirfruitchaat/pos-api/models"
	"github.com/tahirfruitchaat/pos-api/routes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("✅ Starting POS service...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.ActivityLog{},
		&models.Product{},
		&models.OrderTaker{},
		&models.Cart{},
		&models.CartItem{},
		&models.Sale{},
		&models.SaleItem{},
		&models.InvoiceCounter{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	if err := adminController.SeedSuperadmin(db); err != nil {
		log.Fatalf("❌ User seed failed: %v", err)
	}
	seedOpenSaleTaker(db)

	// Upstream gateway + offline snapshot cache
	upstream := gateway.NewFromEnv()
	snapshots := initCache()

	if snapshots != nil {
		seedFromUpstreamOrCache(db, upstream, snapshots)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, db, upstream)

	// Background loops: upstream reconciliation every 15s, snapshot archive
	// daily at 2 AM with 4 days of retention.
	if snapshots != nil {
		go startReconcileLoop(db, upstream, snapshots, 15*time.Second)
		go startDailyArchiveAtFixedTime(snapshots, 4*24*time.Hour, 2, 0)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 POS service running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
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

func initCache() *cache.Store {
	dir := os.Getenv("CACHE_DIR")
	if dir == "" {
		dir = "./pos-cache"
	}
	store, err := cache.New(dir)
	if err != nil {
		log.Printf("❌ Snapshot cache unavailable: %v", err)
		return nil
	}
	return store
}

// seedOpenSaleTaker guarantees the synthetic self-service taker exists, so
// customer self-checkout always has an identity to attribute sales to.
func seedOpenSaleTaker(db *gorm.DB) {
	var count int64
	db.Model(&models.OrderTaker{}).Where("self_service = ?", true).Count(&count)
	if count > 0 {
		return
	}
	taker := models.OrderTaker{Name: "Open Sale", SelfService: true}
	if err := db.Create(&taker).Error; err != nil {
		log.Printf("❌ Failed to seed Open Sale taker: %v", err)
		return
	}
	log.Println("✅ Seeded Open Sale taker")
}

// seedFromUpstreamOrCache fills empty catalog/roster tables: upstream
// first, local snapshots when the upstream is unreachable.
func seedFromUpstreamOrCache(db *gorm.DB, upstream *gateway.Client, snapshots *cache.Store) {
	var productCount int64
	db.Model(&models.Product{}).Count(&productCount)
	if productCount == 0 {
		products, err := upstream.FetchProducts()
		if err != nil {
			log.Printf("⚠️ Upstream catalog unavailable, trying cache: %v", err)
			products, err = snapshots.LoadProducts()
			if err != nil {
				log.Printf("❌ Cache restore failed: %v", err)
			}
		}
		if len(products) > 0 {
			if err := db.Create(&products).Error; err != nil {
				log.Printf("❌ Failed to seed products: %v", err)
			} else {
				log.Printf("✅ Seeded %d products", len(products))
			}
		}
	}

	var takerCount int64
	db.Model(&models.OrderTaker{}).Where("self_service = ?", false).Count(&takerCount)
	if takerCount == 0 {
		takers, err := upstream.FetchOrderTakers()
		if err != nil {
			log.Printf("⚠️ Upstream roster unavailable, trying cache: %v", err)
			takers, err = snapshots.LoadOrderTakers()
			if err != nil {
				log.Printf("❌ Cache restore failed: %v", err)
			}
		}
		if len(takers) > 0 {
			if err := db.Create(&takers).Error; err != nil {
				log.Printf("❌ Failed to seed order takers: %v", err)
			} else {
				log.Printf("✅ Seeded %d order takers", len(takers))
			}
		}
	}
}

// startReconcileLoop re-pushes unsynced sales upstream and refreshes the
// local snapshot files on a fixed interval.
func startReconcileLoop(db *gorm.DB, upstream *gateway.Client, snapshots *cache.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if upstream.Enabled() {
			var unsynced []models.Sale
			if err := db.Preload("Items").Where("synced = ?", false).
				Limit(50).Find(&unsynced).Error; err == nil {
				for i := range unsynced {
					if err := upstream.PushSale(&unsynced[i]); err != nil {
						// Still offline; try again next tick.
						break
					}
					if err := saleControllers.MarkSynced(db, unsynced[i].ID); err != nil {
						log.Printf("❌ Failed to mark sale %s synced: %v", unsynced[i].InvoiceID, err)
					}
				}
			}

			refreshTakerRoster(db, upstream)
		}

		writeSnapshots(db, snapshots)
	}
}

// refreshTakerRoster pulls the upstream roster and inserts takers we have
// not seen yet. Balances are owned locally, so existing rows are never
// overwritten.
func refreshTakerRoster(db *gorm.DB, upstream *gateway.Client) {
	takers, err := upstream.FetchOrderTakers()
	if err != nil {
		return
	}
	for _, taker := range takers {
		var existing models.OrderTaker
		if err := db.Where("name = ?", taker.Name).First(&existing).Error; err == nil {
			continue
		}
		taker.ID = 0
		if err := db.Create(&taker).Error; err != nil {
			log.Printf("⚠️ Failed to add order taker %q from upstream: %v", taker.Name, err)
		}
	}
}

func writeSnapshots(db *gorm.DB, snapshots *cache.Store) {
	var products []models.Product
	if err := db.Find(&products).Error; err == nil {
		if err := snapshots.SnapshotProducts(products); err != nil {
			log.Printf("❌ Product snapshot failed: %v", err)
		}
	}

	var takers []models.OrderTaker
	if err := db.Find(&takers).Error; err == nil {
		if err := snapshots.SnapshotOrderTakers(takers); err != nil {
			log.Printf("❌ Order taker snapshot failed: %v", err)
		}
	}

	var sales []models.Sale
	if err := db.Preload("Items").Order("created_at DESC").Limit(500).Find(&sales).Error; err == nil {
		if err := snapshots.SnapshotSales(sales); err != nil {
			log.Printf("❌ Sales snapshot failed: %v", err)
		}
	}
}

// startDailyArchiveAtFixedTime archives snapshots daily at a fixed hour and
// removes archives older than the retention window.
func startDailyArchiveAtFixedTime(snapshots *cache.Store, retention time.Duration, hour, min int) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		sleepDuration := next.Sub(now)
		log.Printf("⏳ Next snapshot archive scheduled at: %s", next.Format("2006-01-02 15:04:05"))
		time.Sleep(sleepDuration)

		if err := snapshots.Archive(retention); err != nil {
			log.Printf("❌ Failed to archive snapshots: %v", err)
		} else {
			log.Println("✅ Snapshots archived")
		}
	}
}
