package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/adapter/postgres"
	"github.com/storedesk/storedesk/infrastructure/service/password"
)

// seed fills a development database with one admin per role and a small catalog
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	seedPassword := getenvDefault("SEED_USER_PASSWORD", "Demo1234!")
	domain := getenvDefault("SEED_EMAIL_DOMAIN", "storedesk.local")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping db: %v", err)
	}

	users := postgres.NewUserRepositoryAdapter(db)
	products := postgres.NewProductRepository(db)
	events := postgres.NewEventRepository(db)

	hash, err := password.NewBcryptPasswordService(10).HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	for _, role := range entity.Roles {
		email := fmt.Sprintf("%s@%s", role, domain)
		exists, err := users.ExistsByEmail(ctx, email)
		if err != nil {
			log.Fatalf("failed to check %s: %v", email, err)
		}
		if exists {
			fmt.Printf("skip admin %s (exists)\n", email)
			continue
		}
		user := entity.NewAdminUser(uuid.New().String(), email, string(role), role, hash)
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("failed to seed admin %s: %v", email, err)
		}
		fmt.Printf("Seeded admin: email=%s password=%s role=%s id=%s\n", email, seedPassword, role, user.ID)
	}

	var productIDs []string
	for _, p := range sampleProducts() {
		existing, err := products.FindBySlug(ctx, p.Slug)
		if err == nil {
			productIDs = append(productIDs, existing.ID)
			fmt.Printf("skip product %s (exists)\n", p.Slug)
			continue
		}
		if !apperror.IsNotFound(err) {
			log.Fatalf("failed to look up product %s: %v", p.Slug, err)
		}
		created, err := products.Create(ctx, p)
		if err != nil {
			log.Fatalf("failed to seed product %s: %v", p.Slug, err)
		}
		productIDs = append(productIDs, created.ID)
		fmt.Printf("Seeded product: slug=%s id=%s\n", created.Slug, created.ID)
	}

	// orders have no create path in the dashboard
	statuses := []entity.OrderStatus{entity.OrderStatusPending, entity.OrderStatusProcessing, entity.OrderStatusShipped}
	for i, status := range statuses {
		var id string
		err := db.QueryRowContext(ctx, `
			INSERT INTO orders (user_id, status, total, currency, shipping_email)
			VALUES ($1, $2, $3, 'EUR', $4)
			RETURNING id`,
			fmt.Sprintf("customer-%d", i+1), string(status), int64(1999*(i+1)), fmt.Sprintf("customer%d@example.com", i+1),
		).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed order: %v", err)
		}
		fmt.Printf("Seeded order: id=%s status=%s\n", id, status)
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	event := &entity.Event{
		Title:              map[string]string{"en": "Autumn sale", "de": "Herbstaktion"},
		Description:        map[string]string{"en": "Ten percent off everything"},
		BackgroundColor:    "#1f2937",
		TextColor:          "#ffffff",
		StartDate:          start,
		EndDate:            start.Add(14 * 24 * time.Hour),
		DiscountPercentage: 10,
		IsActive:           true,
	}
	created, err := events.Create(ctx, event)
	if err != nil {
		log.Fatalf("failed to seed event: %v", err)
	}
	fmt.Printf("Seeded event: id=%s products=%d\n", created.ID, len(productIDs))
}

func sampleProducts() []*entity.Product {
	return []*entity.Product{
		{
			Slug:        "linen-shirt",
			Title:       map[string]string{"en": "Linen shirt", "de": "Leinenhemd"},
			Description: map[string]string{"en": "Relaxed fit linen shirt"},
			Price:       4900,
			Currency:    "EUR",
			Stock:       25,
			Category:    "apparel",
			Tags:        []string{"summer", "linen"},
			Images:      []string{},
		},
		{
			Slug:               "canvas-tote",
			Title:              map[string]string{"en": "Canvas tote"},
			Description:        map[string]string{"en": "Heavy canvas shopping bag"},
			Price:              1900,
			Currency:           "EUR",
			Stock:              80,
			Category:           "accessories",
			Tags:               []string{"bags"},
			Images:             []string{},
			DiscountPercentage: 15,
			DiscountActive:     true,
		},
		{
			Slug:        "ceramic-mug",
			Title:       map[string]string{"en": "Ceramic mug"},
			Description: map[string]string{"en": "Hand glazed, 350ml"},
			Price:       1200,
			Currency:    "EUR",
			Stock:       0,
			Category:    "home",
			Tags:        []string{},
			Images:      []string{},
		},
	}
}

func getenvDefault(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}
