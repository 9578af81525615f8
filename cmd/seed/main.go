package main

import (
	"context"
	"log"
	"os"

	"authcore/internal/config"
	"authcore/internal/db"
	"authcore/internal/model"
	"authcore/internal/repository"
	"authcore/internal/seed"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.Permission{},
		&model.Role{},
		&model.RolePermission{},
		&model.User{},
		&model.RefreshToken{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	adminEmail := envOr("ADMIN_EMAIL", seed.DefaultAdminEmail)
	adminPassword := envOr("ADMIN_PASSWORD", seed.DefaultAdminPassword)

	seeder := seed.New(
		repository.NewUserRepository(gormDB),
		repository.NewRoleRepository(gormDB),
		repository.NewPermissionRepository(gormDB),
	)
	if err := seeder.Run(context.Background(), adminEmail, adminPassword); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding completed successfully")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
