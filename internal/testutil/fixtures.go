package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fintrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a transaction with the given signed amount and category.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, amount float64, category models.Category) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Title:    fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:   amount,
		Category: category,
		Date:     time.Now(),
		UserID:   userID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestTransactionAt creates a transaction dated at the given time.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID uint, amount float64, category models.Category, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Title:    fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:   amount,
		Category: category,
		Date:     date,
		UserID:   userID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
