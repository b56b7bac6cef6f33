package category

import (
	"strings"
	"time"
)

// Uncategorized is the label recorded when a category cannot be resolved
const Uncategorized = "Uncategorized"

// Type says which side of the P&L a category belongs to
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
)

// ParseType accepts INCOME/EXPENSE and the UI aliases INCOME_SOURCE/EXPENSE_CATEGORY
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INCOME", "INCOME_SOURCE":
		return TypeIncome, nil
	case "EXPENSE", "EXPENSE_CATEGORY":
		return TypeExpense, nil
	}
	return "", ErrInvalidType
}

// Category is an entry in the income/expense category registry
type Category struct {
	ID        int64     `json:"id"`
	Type      Type      `json:"type"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate validates the category
func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrMissingName
	}
	if len(c.Name) > 100 {
		return ErrNameTooLong
	}
	if c.Type != TypeIncome && c.Type != TypeExpense {
		return ErrInvalidType
	}
	return nil
}
