package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	"github.com/storedesk/storedesk/infrastructure/adapter/postgres"
	"github.com/storedesk/storedesk/infrastructure/config"
	"github.com/storedesk/storedesk/infrastructure/service/jwt"
	"github.com/storedesk/storedesk/infrastructure/service/password"
)

// create_admin inserts an admin_users row and optionally prints a dev access token for it
func main() {
	email := flag.String("email", "admin@storedesk.local", "admin email")
	userPassword := flag.String("password", "", "admin password, required")
	name := flag.String("name", "Administrator", "full name")
	role := flag.String("role", string(entity.RoleSuperAdmin), "super_admin, admin, editor or viewer")
	mintToken := flag.Bool("token", false, "print an access token for the new admin")
	flag.Parse()

	ctx := context.Background()

	if *userPassword == "" {
		log.Fatal("-password is required")
	}
	adminRole := entity.Role(strings.ToLower(*role))
	if !adminRole.Valid() {
		log.Fatalf("unknown role: %s", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	userRepo := postgres.NewUserRepositoryAdapter(db)

	exists, err := userRepo.ExistsByEmail(ctx, *email)
	if err != nil {
		log.Fatalf("Failed to check email: %v", err)
	}
	if exists {
		log.Fatalf("An admin with email %s already exists", *email)
	}

	passwordService := password.NewBcryptPasswordService(10)
	hashedPassword, err := passwordService.HashPassword(*userPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	adminUser := entity.NewAdminUser(uuid.New().String(), *email, *name, adminRole, hashedPassword)
	if err := userRepo.Create(ctx, adminUser); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	fmt.Printf("Admin user created\n")
	fmt.Printf("  id:    %s\n", adminUser.ID)
	fmt.Printf("  email: %s\n", adminUser.Email)
	fmt.Printf("  name:  %s\n", adminUser.FullName)
	fmt.Printf("  role:  %s\n", adminUser.Role)

	if !*mintToken {
		return
	}

	tokenService, err := jwt.NewJWTService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	token, err := tokenService.GenerateAccessToken(outbound.TokenClaims{UserID: adminUser.ID, Email: adminUser.Email})
	if err != nil {
		log.Fatalf("Failed to mint access token: %v", err)
	}
	fmt.Printf("  token: %s\n", token)
	fmt.Printf("  expires in: %s\n", cfg.AccessTokenTTL)
}
