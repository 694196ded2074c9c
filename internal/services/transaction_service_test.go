package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("creates_with_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, "Salary", 5000, models.CategorySalary, time.Now(), "")
		testutil.AssertNoError(t, err)

		if tx.ID == 0 {
			t.Fatal("expected non-zero transaction ID")
		}
		if tx.UserID != user.ID {
			t.Errorf("expected owner %d, got %d", user.ID, tx.UserID)
		}
		if tx.Amount != 5000 {
			t.Errorf("expected amount 5000, got %v", tx.Amount)
		}
	})

	t.Run("trims_title_and_notes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, "  Lunch  ", -12.5, models.CategoryFood, time.Now(), "  with team  ")
		testutil.AssertNoError(t, err)

		if tx.Title != "Lunch" {
			t.Errorf("expected trimmed title, got %q", tx.Title)
		}
		if tx.Notes != "with team" {
			t.Errorf("expected trimmed notes, got %q", tx.Notes)
		}
	})

	t.Run("defaults_date_to_now", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, "Groceries", -40, models.CategoryFood, time.Time{}, "")
		testutil.AssertNoError(t, err)

		if tx.Date.IsZero() {
			t.Error("expected date to be defaulted to now, got zero")
		}
	})

	t.Run("rejects_empty_title", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, "   ", 10, models.CategoryOther, time.Now(), "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, "Mystery", 10, "Groceries", time.Now(), "")
		testutil.AssertAppError(t, err, "INVALID_CATEGORY")

		// Nothing persisted
		var count int64
		db.Model(&models.Transaction{}).Count(&count)
		if count != 0 {
			t.Errorf("expected no transactions persisted, got %d", count)
		}
	})

	t.Run("allows_zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, "Freebie", 0, models.CategoryOther, time.Now(), "")
		testutil.AssertNoError(t, err)
		if tx.Amount != 0 {
			t.Errorf("expected amount 0, got %v", tx.Amount)
		}
	})
}

func TestListTransactions(t *testing.T) {
	t.Run("scopes_to_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user1.ID, 100, models.CategorySalary)
		testutil.CreateTestTransaction(t, db, user2.ID, 200, models.CategorySalary)

		result, err := svc.ListTransactions(user1.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(result.Transactions) != 1 {
			t.Fatalf("expected 1 transaction for user1, got %d", len(result.Transactions))
		}
		for _, tx := range result.Transactions {
			if tx.UserID != user1.ID {
				t.Errorf("listing leaked transaction owned by %d", tx.UserID)
			}
		}
	})

	t.Run("paginates_25_records_limit_10", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 25; i++ {
			testutil.CreateTestTransactionAt(t, db, user.ID, float64(i+1), models.CategoryOther, base.AddDate(0, 0, i))
		}

		page1, err := svc.ListTransactions(user.ID, pagination.PageRequest{Page: 1, Limit: 10}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if page1.TotalPages != 3 {
			t.Errorf("expected 3 total pages, got %d", page1.TotalPages)
		}
		if page1.CurrentPage != 1 {
			t.Errorf("expected current page 1, got %d", page1.CurrentPage)
		}
		if len(page1.Transactions) != 10 {
			t.Errorf("expected 10 transactions on page 1, got %d", len(page1.Transactions))
		}

		page3, err := svc.ListTransactions(user.ID, pagination.PageRequest{Page: 3, Limit: 10}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(page3.Transactions) != 5 {
			t.Errorf("expected 5 transactions on page 3, got %d", len(page3.Transactions))
		}
	})

	t.Run("orders_by_date_desc", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		now := time.Now()
		testutil.CreateTestTransactionAt(t, db, user.ID, 1, models.CategoryOther, now.AddDate(0, 0, -3))
		newest := testutil.CreateTestTransactionAt(t, db, user.ID, 3, models.CategoryOther, now)
		testutil.CreateTestTransactionAt(t, db, user.ID, 2, models.CategoryOther, now.AddDate(0, 0, -1))

		result, err := svc.ListTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(result.Transactions) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(result.Transactions))
		}
		if result.Transactions[0].ID != newest.ID {
			t.Errorf("expected newest transaction first, got ID %d", result.Transactions[0].ID)
		}
	})

	t.Run("search_is_case_insensitive_substring", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		db.Create(&models.Transaction{Title: "Grocery Shopping", Amount: -50, Category: models.CategoryFood, Date: time.Now(), UserID: user.ID})
		db.Create(&models.Transaction{Title: "Bus ticket", Amount: -3, Category: models.CategoryTransport, Date: time.Now(), UserID: user.ID})

		result, err := svc.ListTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Search: "gRoCeRy"})
		testutil.AssertNoError(t, err)

		if len(result.Transactions) != 1 {
			t.Fatalf("expected 1 match, got %d", len(result.Transactions))
		}
		if result.Transactions[0].Title != "Grocery Shopping" {
			t.Errorf("unexpected match %q", result.Transactions[0].Title)
		}
	})

	t.Run("filters_by_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, -30, models.CategoryFood)
		testutil.CreateTestTransaction(t, db, user.ID, -20, models.CategoryFood)
		testutil.CreateTestTransaction(t, db, user.ID, 100, models.CategorySalary)

		food := models.CategoryFood
		result, err := svc.ListTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Category: &food})
		testutil.AssertNoError(t, err)

		if len(result.Transactions) != 2 {
			t.Errorf("expected 2 food transactions, got %d", len(result.Transactions))
		}
	})

	t.Run("filters_by_date_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		day := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionAt(t, db, user.ID, 1, models.CategoryOther, day.AddDate(0, -2, 0))
		inRange := testutil.CreateTestTransactionAt(t, db, user.ID, 2, models.CategoryOther, day)
		testutil.CreateTestTransactionAt(t, db, user.ID, 3, models.CategoryOther, day.AddDate(0, 2, 0))

		start := day.AddDate(0, -1, 0)
		end := day.AddDate(0, 1, 0)
		result, err := svc.ListTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{StartDate: &start, EndDate: &end})
		testutil.AssertNoError(t, err)

		if len(result.Transactions) != 1 {
			t.Fatalf("expected 1 transaction in range, got %d", len(result.Transactions))
		}
		if result.Transactions[0].ID != inRange.ID {
			t.Errorf("unexpected transaction %d in range", result.Transactions[0].ID)
		}
	})

	t.Run("start_date_only_is_open_ended", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestTransactionAt(t, db, user.ID, 1, models.CategoryOther, day.AddDate(0, -1, 0))
		testutil.CreateTestTransactionAt(t, db, user.ID, 2, models.CategoryOther, day)
		testutil.CreateTestTransactionAt(t, db, user.ID, 3, models.CategoryOther, day.AddDate(0, 1, 0))

		result, err := svc.ListTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{StartDate: &day})
		testutil.AssertNoError(t, err)

		// Inclusive lower bound, no upper bound
		if len(result.Transactions) != 2 {
			t.Errorf("expected 2 transactions on or after the start date, got %d", len(result.Transactions))
		}
	})

	t.Run("empty_page_returns_empty_slice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		result, err := svc.ListTransactions(user.ID, pagination.PageRequest{Page: 5, Limit: 10}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.Transactions == nil {
			t.Error("expected empty slice, got nil")
		}
		if len(result.Transactions) != 0 {
			t.Errorf("expected 0 transactions, got %d", len(result.Transactions))
		}
		if result.TotalPages != 0 {
			t.Errorf("expected 0 total pages, got %d", result.TotalPages)
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("applies_partial_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, -30, models.CategoryFood)

		newAmount := -45.0
		newNotes := " dinner out "
		updated, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Amount: &newAmount, Notes: &newNotes})
		testutil.AssertNoError(t, err)

		if updated.Amount != -45 {
			t.Errorf("expected amount -45, got %v", updated.Amount)
		}
		if updated.Notes != "dinner out" {
			t.Errorf("expected trimmed notes, got %q", updated.Notes)
		}
		if updated.Title != tx.Title {
			t.Errorf("expected title unchanged, got %q", updated.Title)
		}
		if updated.Category != models.CategoryFood {
			t.Errorf("expected category unchanged, got %q", updated.Category)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		amount := 10.0
		_, err := svc.UpdateTransaction(user.ID, 99999, TransactionUpdateFields{Amount: &amount})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("wrong_user_is_unauthorized_and_leaves_record_unchanged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, owner.ID, -30, models.CategoryFood)

		amount := 999.0
		_, err := svc.UpdateTransaction(intruder.ID, tx.ID, TransactionUpdateFields{Amount: &amount})
		testutil.AssertAppError(t, err, "USER_NOT_AUTHORIZED")

		var stored models.Transaction
		db.First(&stored, tx.ID)
		if stored.Amount != -30 {
			t.Errorf("expected record unchanged, amount is %v", stored.Amount)
		}
	})

	t.Run("rejects_blank_title", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, 10, models.CategoryOther)

		blank := "   "
		_, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Title: &blank})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, 10, models.CategoryOther)

		bad := models.Category("Groceries")
		_, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdateFields{Category: &bad})
		testutil.AssertAppError(t, err, "INVALID_CATEGORY")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("removes_owned_record", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, -5, models.CategoryFood)

		err := svc.DeleteTransaction(user.ID, tx.ID)
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.Transaction{}).Where("id = ?", tx.ID).Count(&count)
		if count != 0 {
			t.Error("expected transaction to be deleted")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteTransaction(user.ID, 99999)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("wrong_user_is_unauthorized_and_keeps_record", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, owner.ID, -5, models.CategoryFood)

		err := svc.DeleteTransaction(intruder.ID, tx.ID)
		testutil.AssertAppError(t, err, "USER_NOT_AUTHORIZED")

		var count int64
		db.Model(&models.Transaction{}).Where("id = ?", tx.ID).Count(&count)
		if count != 1 {
			t.Error("expected transaction to survive unauthorized delete")
		}
	})
}

func TestGetSummary(t *testing.T) {
	t.Run("totals_and_breakdown", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, 100, models.CategorySalary)
		testutil.CreateTestTransaction(t, db, user.ID, -30, models.CategoryFood)
		testutil.CreateTestTransaction(t, db, user.ID, -20, models.CategoryFood)

		summary, err := svc.GetSummary(user.ID)
		testutil.AssertNoError(t, err)

		if summary.Totals.TotalIncome != 100 {
			t.Errorf("expected totalIncome 100, got %v", summary.Totals.TotalIncome)
		}
		if summary.Totals.TotalExpense != -50 {
			t.Errorf("expected totalExpense -50, got %v", summary.Totals.TotalExpense)
		}

		byCategory := map[models.Category]float64{}
		for _, entry := range summary.CategoryBreakdown {
			byCategory[entry.Category] = entry.TotalAmount
		}
		if len(byCategory) != 2 {
			t.Fatalf("expected 2 breakdown entries, got %d", len(byCategory))
		}
		if byCategory[models.CategorySalary] != 100 {
			t.Errorf("expected Salary total 100, got %v", byCategory[models.CategorySalary])
		}
		if byCategory[models.CategoryFood] != -50 {
			t.Errorf("expected Food total -50, got %v", byCategory[models.CategoryFood])
		}
	})

	t.Run("empty_ledger_yields_zeros", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		summary, err := svc.GetSummary(user.ID)
		testutil.AssertNoError(t, err)

		if summary.Totals.TotalIncome != 0 || summary.Totals.TotalExpense != 0 {
			t.Errorf("expected zero totals, got %+v", summary.Totals)
		}
		if summary.CategoryBreakdown == nil {
			t.Error("expected empty breakdown slice, got nil")
		}
		if len(summary.CategoryBreakdown) != 0 {
			t.Errorf("expected no breakdown entries, got %d", len(summary.CategoryBreakdown))
		}
	})

	t.Run("totals_and_breakdown_balance_against_ledger_sum", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		amounts := []float64{250, -75.5, 42, -10, -3.25, 1000}
		categories := []models.Category{
			models.CategorySalary, models.CategoryFood, models.CategoryOther,
			models.CategoryTransport, models.CategoryFood, models.CategoryInvestment,
		}
		var total float64
		for i, amount := range amounts {
			testutil.CreateTestTransaction(t, db, user.ID, amount, categories[i])
			total += amount
		}

		summary, err := svc.GetSummary(user.ID)
		testutil.AssertNoError(t, err)

		if got := summary.Totals.TotalIncome + summary.Totals.TotalExpense; got != total {
			t.Errorf("income+expense = %v, want ledger sum %v", got, total)
		}

		var breakdownSum float64
		for _, entry := range summary.CategoryBreakdown {
			breakdownSum += entry.TotalAmount
		}
		if breakdownSum != total {
			t.Errorf("breakdown sum = %v, want ledger sum %v", breakdownSum, total)
		}
	})

	t.Run("excludes_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user1.ID, 100, models.CategorySalary)
		testutil.CreateTestTransaction(t, db, user2.ID, 9999, models.CategorySalary)

		summary, err := svc.GetSummary(user1.ID)
		testutil.AssertNoError(t, err)

		if summary.Totals.TotalIncome != 100 {
			t.Errorf("expected totalIncome 100 for user1, got %v", summary.Totals.TotalIncome)
		}
	})
}

func TestValidateTransaction(t *testing.T) {
	t.Run("trims_title", func(t *testing.T) {
		title, err := ValidateTransaction("  Coffee  ", models.CategoryFood)
		testutil.AssertNoError(t, err)
		if title != "Coffee" {
			t.Errorf("expected trimmed title, got %q", title)
		}
	})

	t.Run("rejects_blank_title", func(t *testing.T) {
		_, err := ValidateTransaction(" ", models.CategoryFood)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_unknown_category", func(t *testing.T) {
		_, err := ValidateTransaction("Coffee", "Drinks")
		testutil.AssertAppError(t, err, "INVALID_CATEGORY")
	})
}
