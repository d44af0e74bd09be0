package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseCreated  = "expense.created"
	EventTypeExpenseUpdated  = "expense.updated"
	EventTypeExpenseDeleted  = "expense.deleted"
	EventTypeCategoryCreated = "category.created"
	EventTypeCategoryUpdated = "category.updated"
	EventTypeCategoryRenamed = "category.renamed"
	EventTypeCategoryDeleted = "category.deleted"
)

func newBaseEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type ExpenseEvent struct {
	BaseEvent
	ExpenseID string `json:"expense_id"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
}

func NewExpenseEvent(eventType, expenseID, category, amount string) *ExpenseEvent {
	return &ExpenseEvent{
		BaseEvent: newBaseEvent(eventType, map[string]interface{}{
			"expense_id": expenseID,
			"category":   category,
			"amount":     amount,
		}),
		ExpenseID: expenseID,
		Category:  category,
		Amount:    amount,
	}
}

type CategoryEvent struct {
	BaseEvent
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

func NewCategoryEvent(eventType, categoryID, name string) *CategoryEvent {
	return &CategoryEvent{
		BaseEvent: newBaseEvent(eventType, map[string]interface{}{
			"category_id": categoryID,
			"name":        name,
		}),
		CategoryID: categoryID,
		Name:       name,
	}
}

// CategoryRenamedEvent records a rename and how many expenses followed it.
type CategoryRenamedEvent struct {
	BaseEvent
	CategoryID       string `json:"category_id"`
	OldName          string `json:"old_name"`
	NewName          string `json:"new_name"`
	ExpensesAffected int    `json:"expenses_affected"`
}

func NewCategoryRenamedEvent(categoryID, oldName, newName string, expensesAffected int) *CategoryRenamedEvent {
	return &CategoryRenamedEvent{
		BaseEvent: newBaseEvent(EventTypeCategoryRenamed, map[string]interface{}{
			"category_id":       categoryID,
			"old_name":          oldName,
			"new_name":          newName,
			"expenses_affected": expensesAffected,
		}),
		CategoryID:       categoryID,
		OldName:          oldName,
		NewName:          newName,
		ExpensesAffected: expensesAffected,
	}
}
