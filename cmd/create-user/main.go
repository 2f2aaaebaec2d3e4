package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cms-api/internal/models"
	"github.com/noah-isme/cms-api/internal/repository"
	"github.com/noah-isme/cms-api/internal/service"
	"github.com/noah-isme/cms-api/pkg/config"
	"github.com/noah-isme/cms-api/pkg/database"
	"github.com/noah-isme/cms-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password (min 8 characters)")
	name := flag.String("name", "", "full name")
	role := flag.String("role", string(models.RoleAdmin), "ADMIN or STAFF")
	flag.Parse()

	if *email == "" || *password == "" || *name == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	authSvc := service.NewAuthService(repository.NewUserRepository(db), validator.New(), logr, service.AuthConfig{
		AccessTokenSecret: cfg.Auth.Secret,
		AccessTokenExpiry: cfg.Auth.Expiration,
		Issuer:            cfg.Auth.Issuer,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := authSvc.Register(ctx, service.RegisterUserRequest{
		Email:    *email,
		Password: *password,
		FullName: *name,
		Role:     models.UserRole(strings.ToUpper(*role)),
	})
	if err != nil {
		logr.Fatal("failed to create user", zap.Error(err))
	}
	fmt.Printf("created user %d (%s, %s)\n", user.ID, user.Email, user.Role)
}
