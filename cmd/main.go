package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Khushali-sys/Book-my-advocate/cmd/api"
	"github.com/Khushali-sys/Book-my-advocate/cmd/models"
	"github.com/Khushali-sys/Book-my-advocate/db"
	"gorm.io/gorm"
)

func main() {
	// Check for command-line arguments
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrations()
			return
		case "seed":
			runSeed()
			return
		case "clear-db":
			runDatabaseClear()
			return
		default:
			log.Fatalf("Unknown command: %s", os.Args[1])
		}
	}

	// Start the server
	startServer()
}

func runMigrations() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
		log.Println("Database connection closed")
	}()
	log.Println("Connected to the database for migrations")

	if err := performMigrations(DB); err != nil {
		log.Fatalf("Migration error: %v", err)
	}
	log.Println("Migrations completed successfully")
}

func performMigrations(DB *gorm.DB) error {

	migrations := map[interface{}]string{
		&models.User{}:                 "User",
		&models.PasswordResetToken{}:   "PasswordResetToken",
		&models.Specialization{}:       "Specialization",
		&models.Advocate{}:             "Advocate",
		&models.AdvocateAvailability{}: "AdvocateAvailability",
		&models.Booking{}:              "Booking",
		&models.Review{}:               "Review",
		&models.Payment{}:              "Payment",
		&models.Notification{}:         "Notification",
		&models.Device{}:               "Device",
	}

	log.Println("Starting database migrations...")
	for model, name := range migrations {
		log.Printf("Migrating %s table...", name)
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", name, err)
		}
		log.Printf("%s migration successful", name)
	}

	log.Println("All migrations completed successfully")
	return nil
}

// runSeed inserts the default specialization catalogue. Existing rows are
// left untouched.
func runSeed() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
	}()

	specializations := []models.Specialization{
		{Name: "Criminal Law", Description: "Defence and prosecution in criminal matters", Icon: "fa-gavel"},
		{Name: "Family Law", Description: "Divorce, custody and maintenance disputes", Icon: "fa-people-roof"},
		{Name: "Corporate Law", Description: "Company formation, contracts and compliance", Icon: "fa-building"},
		{Name: "Property Law", Description: "Real estate, tenancy and land disputes", Icon: "fa-house"},
		{Name: "Tax Law", Description: "Direct and indirect taxation matters", Icon: "fa-file-invoice-dollar"},
		{Name: "Labour Law", Description: "Employment and industrial disputes", Icon: "fa-briefcase"},
		{Name: "Intellectual Property", Description: "Patents, trademarks and copyright", Icon: "fa-lightbulb"},
		{Name: "Consumer Protection", Description: "Consumer complaints and product liability", Icon: "fa-cart-shopping"},
	}

	for _, spec := range specializations {
		result := DB.Where("name = ?", spec.Name).FirstOrCreate(&spec)
		if result.Error != nil {
			log.Printf("Error seeding specialization %s: %v", spec.Name, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			log.Printf("Seeded specialization: %s", spec.Name)
		}
	}

	log.Println("Seeding completed")
}

func startServer() {
	// Initialize database connection
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
		log.Println("Database connection closed")
	}()
	log.Println("Connected to the database")

	// Graceful shutdown setup
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// Start the API server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	server := api.NewApiServer(":"+port, DB)

	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()
	log.Printf("Server running on port %s", port)

	<-quit
	log.Println("Shutting down server...")
}

func clearDatabase(DB *gorm.DB, tables []interface{}) error {
	if len(tables) == 0 {
		// Default: Drop all tables
		tables = []interface{}{
			&models.Notification{},
			&models.Device{},
			&models.Payment{},
			&models.Review{},
			&models.Booking{},
			&models.AdvocateAvailability{},
			&models.Advocate{},
			&models.Specialization{},
			&models.PasswordResetToken{},
			&models.User{},
		}
	}

	log.Println("Dropping tables...")

	for _, table := range tables {
		if err := DB.Migrator().DropTable(table); err != nil {
			log.Printf("Warning dropping table %T: %v", table, err)
		} else {
			log.Printf("Table %T dropped", table)
		}
	}

	return nil
}

func runDatabaseClear() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
		log.Println("Database connection closed")
	}()

	log.Println("Preparing to clear database...")

	var confirmation string
	fmt.Print("Are you sure you want to clear the database? (yes/no): ")
	fmt.Scanln(&confirmation)

	if confirmation != "yes" {
		log.Println("Database clearing cancelled.")
		return
	}

	var tableNames string
	fmt.Print("Enter table names to clear (comma separated) or leave blank to clear all: ")
	fmt.Scanln(&tableNames)

	var tables []interface{}
	if tableNames != "" {
		for _, table := range strings.Split(tableNames, ",") {
			switch strings.TrimSpace(table) {
			case "User":
				tables = append(tables, &models.User{})
			case "PasswordResetToken":
				tables = append(tables, &models.PasswordResetToken{})
			case "Specialization":
				tables = append(tables, &models.Specialization{})
			case "Advocate":
				tables = append(tables, &models.Advocate{})
			case "AdvocateAvailability":
				tables = append(tables, &models.AdvocateAvailability{})
			case "Booking":
				tables = append(tables, &models.Booking{})
			case "Review":
				tables = append(tables, &models.Review{})
			case "Payment":
				tables = append(tables, &models.Payment{})
			case "Notification":
				tables = append(tables, &models.Notification{})
			case "Device":
				tables = append(tables, &models.Device{})
			default:
				log.Printf("Unknown table: %s", table)
			}
		}
	}

	if err := clearDatabase(DB, tables); err != nil {
		log.Fatalf("Error clearing database: %v", err)
	}

	log.Println("Database cleared successfully")
}
