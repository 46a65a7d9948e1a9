package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ai-storefront-be/internal/model"
	"ai-storefront-be/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// gen_random_uuid() needs pgcrypto on older Postgres
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create extension: %v. Continuing...", err)
	}

	if err := db.AutoMigrate(&model.Category{}, &model.Product{}); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	log.Println("Seeding Catalog...")
	seedCatalog(db)
	log.Println("Catalog seeding completed!")
}

type seedProduct struct {
	Name        string
	Slug        string
	Description string
	Price       int64
	Rating      float64
	Stock       int
	Specs       string
}

func seedCatalog(db *gorm.DB) {
	catalog := map[string]struct {
		Slug     string
		Products []seedProduct
	}{
		"Telefonok": {
			Slug: "telefonok",
			Products: []seedProduct{
				{Name: "iPhone 15", Slug: "iphone-15", Description: "Apple iPhone 15 128 GB, Dynamic Island, 48 MP kamera.", Price: 389990, Rating: 4.8, Stock: 24, Specs: `{"kijelzo":"6.1\" OLED","tarhely":"128 GB","akkumulator":"3349 mAh"}`},
				{Name: "Samsung Galaxy S24", Slug: "samsung-galaxy-s24", Description: "Samsung Galaxy S24 256 GB, Galaxy AI funkciókkal.", Price: 329990, Rating: 4.7, Stock: 31, Specs: `{"kijelzo":"6.2\" AMOLED","tarhely":"256 GB","akkumulator":"4000 mAh"}`},
				{Name: "Xiaomi Redmi Note 13", Slug: "xiaomi-redmi-note-13", Description: "Xiaomi Redmi Note 13 megfizethető áron, 108 MP kamerával.", Price: 89990, Rating: 4.4, Stock: 57, Specs: `{"kijelzo":"6.67\" AMOLED","tarhely":"128 GB","akkumulator":"5000 mAh"}`},
			},
		},
		"Laptopok": {
			Slug: "laptopok",
			Products: []seedProduct{
				{Name: "MacBook Air M3", Slug: "macbook-air-m3", Description: "Apple MacBook Air 13\" M3 chippel, 16 GB memóriával.", Price: 549990, Rating: 4.9, Stock: 12, Specs: `{"processzor":"Apple M3","memoria":"16 GB","tarhely":"512 GB SSD"}`},
				{Name: "Lenovo IdeaPad Slim 5", Slug: "lenovo-ideapad-slim-5", Description: "Lenovo IdeaPad Slim 5 Ryzen 7 processzorral, munkára és tanulásra.", Price: 279990, Rating: 4.3, Stock: 19, Specs: `{"processzor":"AMD Ryzen 7 7730U","memoria":"16 GB","tarhely":"512 GB SSD"}`},
				{Name: "ASUS ROG Strix G16", Slug: "asus-rog-strix-g16", Description: "ASUS ROG Strix G16 gamer laptop RTX 4060 videokártyával.", Price: 649990, Rating: 4.6, Stock: 7, Specs: `{"processzor":"Intel Core i7-13650HX","memoria":"16 GB","videokartya":"RTX 4060"}`},
			},
		},
		"Fülhallgatók": {
			Slug: "fulhallgatok",
			Products: []seedProduct{
				{Name: "AirPods Pro", Slug: "airpods-pro", Description: "Apple AirPods Pro (2. generáció) aktív zajszűréssel.", Price: 89990, Rating: 4.8, Stock: 42, Specs: `{"tipus":"TWS","zajszures":"aktiv","uzemido":"6 ora"}`},
				{Name: "Sony WH-1000XM5", Slug: "sony-wh-1000xm5", Description: "Sony WH-1000XM5 vezeték nélküli fejhallgató, piacvezető zajszűrés.", Price: 139990, Rating: 4.9, Stock: 15, Specs: `{"tipus":"fejhallgato","zajszures":"aktiv","uzemido":"30 ora"}`},
				{Name: "JBL Tune 510BT", Slug: "jbl-tune-510bt", Description: "JBL Tune 510BT belépő szintű Bluetooth fejhallgató.", Price: 14990, Rating: 4.2, Stock: 88, Specs: `{"tipus":"fejhallgato","zajszures":"nincs","uzemido":"40 ora"}`},
			},
		},
		"Okosórák": {
			Slug: "okosorak",
			Products: []seedProduct{
				{Name: "Apple Watch Series 9", Slug: "apple-watch-series-9", Description: "Apple Watch Series 9 GPS, 41 mm, egészségfigyelő funkciókkal.", Price: 169990, Rating: 4.7, Stock: 21, Specs: `{"kijelzo":"41 mm Retina","vizallosag":"50 m","uzemido":"18 ora"}`},
				{Name: "Garmin Forerunner 265", Slug: "garmin-forerunner-265", Description: "Garmin Forerunner 265 futóóra AMOLED kijelzővel.", Price: 189990, Rating: 4.8, Stock: 9, Specs: `{"kijelzo":"AMOLED","gps":"multi-band","uzemido":"13 nap"}`},
			},
		},
		"Televíziók": {
			Slug: "televiziok",
			Products: []seedProduct{
				{Name: "LG OLED C4 55", Slug: "lg-oled-c4-55", Description: "LG OLED evo C4 55\" 4K smart TV, 120 Hz-es képfrissítés.", Price: 529990, Rating: 4.9, Stock: 6, Specs: `{"meret":"55\"","felbontas":"4K","panel":"OLED evo"}`},
				{Name: "Samsung Crystal UHD CU7102", Slug: "samsung-crystal-uhd-cu7102", Description: "Samsung Crystal UHD 50\" 4K smart TV kedvező áron.", Price: 149990, Rating: 4.3, Stock: 27, Specs: `{"meret":"50\"","felbontas":"4K","panel":"LED"}`},
			},
		},
	}

	for categoryName, entry := range catalog {
		var category model.Category
		err := db.Where("slug = ?", entry.Slug).First(&category).Error
		if err == gorm.ErrRecordNotFound {
			category = model.Category{Name: categoryName, Slug: entry.Slug}
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Error creating category '%s': %v", categoryName, err)
				continue
			}
			log.Printf("Created category: %s", categoryName)
		} else if err != nil {
			log.Printf("Error reading category '%s': %v", categoryName, err)
			continue
		}

		for _, p := range entry.Products {
			var existing model.Product
			if err := db.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
				log.Printf("Product '%s' already exists, skipping...", p.Slug)
				continue
			}

			product := model.Product{
				Name:        p.Name,
				Slug:        p.Slug,
				Description: p.Description,
				Price:       p.Price,
				Rating:      p.Rating,
				Stock:       p.Stock,
				Specs:       datatypes.JSON([]byte(p.Specs)),
				CategoryId:  category.Id,
			}
			if err := db.Create(&product).Error; err != nil {
				log.Printf("Error creating product '%s': %v", p.Slug, err)
			} else {
				log.Printf("Created product: %s (%s)", p.Name, p.Slug)
			}
		}
	}
}
