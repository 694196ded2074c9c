package services

import (
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// TransactionFilter holds optional filter parameters for listing transactions.
// Absent fields produce no constraint; the owner scope is applied by the
// service and never comes from client input.
type TransactionFilter struct {
	Search    string
	Category  *models.Category
	StartDate *time.Time
	EndDate   *time.Time
}

// TransactionUpdateFields holds the optional field set for a partial update.
// Nil means "leave unchanged".
type TransactionUpdateFields struct {
	Title    *string
	Amount   *float64
	Category *models.Category
	Date     *time.Time
	Notes    *string
}

// TransactionPage is a single page of a user's filtered, date-descending ledger.
type TransactionPage struct {
	Transactions []models.Transaction `json:"transactions"`
	TotalPages   int                  `json:"totalPages"`
	CurrentPage  int                  `json:"currentPage"`
}

// Totals holds the signed income/expense sums over a user's full ledger.
// TotalExpense stays negative.
type Totals struct {
	TotalIncome  float64 `gorm:"column:total_income" json:"totalIncome"`
	TotalExpense float64 `gorm:"column:total_expense" json:"totalExpense"`
}

// CategoryTotal is the net amount for one category present in a user's ledger.
type CategoryTotal struct {
	Category    models.Category `gorm:"column:category" json:"_id"`
	TotalAmount float64         `gorm:"column:total_amount" json:"totalAmount"`
}

// Summary combines the two independent aggregates for the summary endpoint.
type Summary struct {
	Totals            Totals          `json:"summary"`
	CategoryBreakdown []CategoryTotal `json:"categoryBreakdown"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	ListTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*TransactionPage, error)
	CreateTransaction(userID uint, title string, amount float64, category models.Category, date time.Time, notes string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	GetSummary(userID uint) (*Summary, error)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}
