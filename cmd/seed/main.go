package main

import (
	"fmt"
	"log"
	"os"

	"rentlens/internal/database"
	"rentlens/internal/domain"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func ptr(v float64) *float64 { return &v }

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "rentlens.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM reports")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM products")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@rentlens.id",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Platform Admin",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@rentlens.id / admin123")

	// Owners with coordinates so nearby search has data to rank.
	type seedOwner struct {
		email string
		name  string
		city  string
		lat   float64
		lon   float64
	}
	ownerSeeds := []seedOwner{
		{"dewi@rentlens.id", "Dewi Lestari", "Jakarta", -6.2088, 106.8456},
		{"budi@rentlens.id", "Budi Santoso", "Jakarta", -6.1751, 106.8650},
		{"rina@rentlens.id", "Rina Wijaya", "Bandung", -6.9175, 107.6191},
	}

	owners := make([]domain.User, 0, len(ownerSeeds))
	for _, s := range ownerSeeds {
		hash, _ := bcrypt.GenerateFromPassword([]byte("owner123"), bcrypt.DefaultCost)
		u := domain.User{
			Email:        s.email,
			PasswordHash: string(hash),
			Role:         domain.RoleUser,
			Name:         s.name,
			City:         s.city,
			Latitude:     ptr(s.lat),
			Longitude:    ptr(s.lon),
		}
		db.Create(&u)
		owners = append(owners, u)
	}

	// A renter without listings.
	renterHash, _ := bcrypt.GenerateFromPassword([]byte("renter123"), bcrypt.DefaultCost)
	renter := domain.User{
		Email:        "andi@rentlens.id",
		PasswordHash: string(renterHash),
		Role:         domain.RoleUser,
		Name:         "Andi Pratama",
		City:         "Jakarta",
		Latitude:     ptr(-6.2000),
		Longitude:    ptr(106.8167),
	}
	db.Create(&renter)

	// ================== PRODUCTS ==================
	log.Println("Creating products...")

	type seedProduct struct {
		owner    int
		category domain.ProductCategory
		name     string
		price    float64
	}
	productSeeds := []seedProduct{
		{0, domain.CategoryCamera, "Sony A7 III Body", 250000},
		{0, domain.CategoryLens, "Sony FE 24-70mm f/2.8 GM", 180000},
		{0, domain.CategoryTripod, "Manfrotto Befree Advanced", 50000},
		{1, domain.CategoryCamera, "Canon EOS R6 Body", 275000},
		{1, domain.CategoryDrone, "DJI Mini 4 Pro", 300000},
		{1, domain.CategoryAudio, "Rode Wireless GO II", 90000},
		{2, domain.CategoryCamera, "Fujifilm X-T5 Body", 225000},
		{2, domain.CategoryLighting, "Godox AD200 Pro", 100000},
	}

	for i, s := range productSeeds {
		p := domain.Product{
			OwnerID:     owners[s.owner].ID,
			Category:    s.category,
			Name:        s.name,
			Description: fmt.Sprintf("%s in excellent condition, may include original packaging.", s.name),
			PricePerDay: s.price,
			IsAvailable: true,
			ImageURLs:   []string{fmt.Sprintf("https://cdn.rentlens.id/products/%d/main.jpg", i+1)},
		}
		db.Create(&p)
	}

	log.Println("Seed complete.")
	log.Println("Renter login: andi@rentlens.id / renter123")
	log.Println("Owner login:  dewi@rentlens.id / owner123")
}
