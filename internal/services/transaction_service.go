package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// ValidateTransaction checks the writable transaction fields against the
// schema rules without touching the store. The trimmed title is returned.
func ValidateTransaction(title string, category models.Category) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Please add a title")
	}
	if !category.Valid() {
		return "", apperrors.ErrInvalidCategory
	}
	return title, nil
}

// CreateTransaction validates the fields, assigns ownership to the requesting
// user, and persists a new transaction.
func (s *transactionService) CreateTransaction(userID uint, title string, amount float64, category models.Category, date time.Time, notes string) (*models.Transaction, error) {
	title, err := ValidateTransaction(title, category)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		Title:    title,
		Amount:   amount,
		Category: category,
		Date:     date,
		Notes:    strings.TrimSpace(notes),
		UserID:   userID,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// ListTransactions retrieves one page of the user's filtered ledger, sorted
// by date descending.
func (s *transactionService) ListTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*TransactionPage, error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return &TransactionPage{
		Transactions: transactions,
		TotalPages:   page.TotalPages(count),
		CurrentPage:  page.Page,
	}, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate)
	}
	return q
}

// getOwnedTransaction looks a transaction up by ID and verifies ownership.
// The existence check deliberately precedes the ownership check: an unknown
// ID is a 404 even for another user's caller, a known ID owned by someone
// else is a 401.
func (s *transactionService) getOwnedTransaction(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.First(&transaction, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if transaction.UserID != userID {
		return nil, apperrors.ErrNotOwner
	}

	return &transaction, nil
}

// UpdateTransaction applies a partial field set to a transaction owned by the
// user. Nothing is written when the lookup or ownership check fails.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.getOwnedTransaction(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Please add a title")
		}
		transaction.Title = title
	}
	if fields.Amount != nil {
		transaction.Amount = *fields.Amount
	}
	if fields.Category != nil {
		if !fields.Category.Valid() {
			return nil, apperrors.ErrInvalidCategory
		}
		transaction.Category = *fields.Category
	}
	if fields.Date != nil {
		transaction.Date = *fields.Date
	}
	if fields.Notes != nil {
		transaction.Notes = strings.TrimSpace(*fields.Notes)
	}

	if err := s.db.Save(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// DeleteTransaction removes a transaction owned by the user.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.getOwnedTransaction(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

// GetSummary aggregates the user's full ledger into income/expense totals and
// per-category net amounts. The two aggregates run as separate queries with no
// snapshot guarantee between them.
func (s *transactionService) GetSummary(userID uint) (*Summary, error) {
	var totals Totals
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) AS total_income, " +
			"COALESCE(SUM(CASE WHEN amount < 0 THEN amount ELSE 0 END), 0) AS total_expense").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var breakdown []CategoryTotal
	err = s.db.Model(&models.Transaction{}).
		Select("category, SUM(amount) AS total_amount").
		Where("user_id = ?", userID).
		Group("category").
		Scan(&breakdown).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if breakdown == nil {
		breakdown = []CategoryTotal{}
	}

	return &Summary{Totals: totals, CategoryBreakdown: breakdown}, nil
}
