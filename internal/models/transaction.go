package models

import "time"

// Category is the closed set of transaction categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryUtilities     Category = "Utilities"
	CategoryHealth        Category = "Health"
	CategoryOther         Category = "Other"
	CategorySalary        Category = "Salary"
	CategoryInvestment    Category = "Investment"
	CategoryIncome        Category = "Income"
)

// Categories lists every valid category value.
var Categories = []Category{
	CategoryFood, CategoryTransport, CategoryEntertainment, CategoryShopping,
	CategoryUtilities, CategoryHealth, CategoryOther, CategorySalary,
	CategoryInvestment, CategoryIncome,
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Transaction represents a single income or expense entry in a user's ledger.
// The sign of Amount encodes direction: positive is income, negative is expense.
type Transaction struct {
	Base
	Title    string    `gorm:"not null" json:"title"`
	Amount   float64   `gorm:"not null" json:"amount"`
	Category Category  `gorm:"not null" json:"category"`
	Date     time.Time `gorm:"not null;index" json:"date"`
	Notes    string    `json:"notes"`
	UserID   uint      `gorm:"not null;index" json:"user"`
}
