package service

import (
	"log/slog"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/teslo-shop/backend/internal/models"
	"github.com/teslo-shop/backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.ProductImage{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(
		&repo.GormRepo{DB: newTestDB(t)},
		slog.Default(),
		[]byte("test-jwt-secret"),
		2*time.Hour,
	)
}

func newTestCatalogService(t *testing.T) *CatalogService {
	t.Helper()
	return NewCatalogService(&repo.GormRepo{DB: newTestDB(t)}, nil, nil, slog.Default())
}

func seedUser(t *testing.T, db *gorm.DB, roles ...string) *models.User {
	t.Helper()

	user := models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@test.local",
		PasswordHash: "irrelevant",
		FullName:     "Test User",
		IsActive:     true,
		Roles:        pq.StringArray(roles),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}
