package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-ecommerce/config"
	"github.com/oksasatya/go-ddd-ecommerce/internal/container"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/repository"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/helpers"
)

var sampleProducts = []entity.Product{
	{Name: "Mechanical Keyboard", Description: "87-key, hot-swappable switches", Category: "electronics", Price: 89.90, Stock: 25},
	{Name: "Wireless Mouse", Description: "2.4GHz, 1600 dpi", Category: "electronics", Price: 24.50, Stock: 60},
	{Name: "Coffee Beans 1kg", Description: "Medium roast arabica", Category: "grocery", Price: 18.00, Stock: 40},
	{Name: "Desk Lamp", Description: "LED, adjustable arm", Category: "home", Price: 32.75, Stock: 15},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	closeStore, err := container.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	email := strings.ToLower(getenv("SEED_ADMIN_EMAIL", "admin@example.com"))
	password := getenv("SEED_ADMIN_PASSWORD", "password123")
	name := "Admin"

	users := container.GetUsers()
	if u, err := users.GetByEmail(ctx, email); err == nil {
		fmt.Printf("admin already present: id=%s email=%s\n", u.ID, u.Email)
	} else if errors.Is(err, repository.ErrNotFound) {
		hash, err := helpers.NewBcryptHasher(cfg.BcryptCost).Hash(password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		admin := &entity.User{Name: name, Email: email, PasswordHash: hash, Role: entity.RoleAdmin}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}
		fmt.Printf("seeded admin: id=%s email=%s password=%s\n", admin.ID, email, password)
	} else {
		log.Fatalf("failed to look up admin: %v", err)
	}

	products := container.GetProducts()
	for _, p := range sampleProducts {
		err := products.Create(ctx, &p)
		switch {
		case err == nil:
			fmt.Printf("seeded product: id=%s name=%s stock=%d\n", p.ID, p.Name, p.Stock)
		case errors.Is(err, repository.ErrDuplicateKey):
			fmt.Printf("product exists, skipped: %s\n", p.Name)
		default:
			log.Fatalf("failed to seed product %q: %v", p.Name, err)
		}
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
