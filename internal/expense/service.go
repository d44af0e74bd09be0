package expense

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/shopspring/decimal"
)

// RepositoryAPI is the slice of the persistence adapter the expense service
// needs. *storage.Store implements it.
type RepositoryAPI interface {
	LoadExpenses() ([]*expenseDatamodel.Expense, error)
	SaveExpenses(expenses []*expenseDatamodel.Expense) error
	LockExpenses() func()
}

// Service owns expense CRUD and listing.
type Service struct {
	repo   RepositoryAPI
	clock  internal.Clock
	events events.Publisher
	logger *slog.Logger
}

// NewService creates a new expense service. publisher may be nil.
func NewService(repo RepositoryAPI, clock internal.Clock, publisher events.Publisher, logger *slog.Logger) *Service {
	if clock == nil {
		clock = internal.SystemClock
	}
	return &Service{
		repo:   repo,
		clock:  clock,
		events: publisher,
		logger: logger,
	}
}

func (s *Service) load() ([]*Expense, error) {
	data, err := s.repo.LoadExpenses()
	if err != nil {
		s.logger.Error("failed to load expenses", "error", err)
		return nil, err
	}
	return FromDataModelSlice(data), nil
}

// List returns every expense matching filters, in stored order. A nil
// filter returns the whole collection.
func (s *Service) List(filters *Filters) ([]*Expense, error) {
	expenses, err := s.load()
	if err != nil {
		return nil, err
	}
	return Filter(expenses, filters), nil
}

// Query filters, sorts and paginates in one pass over the collection.
func (s *Service) Query(filters *Filters, sort SortOptions, page Pagination) (*ListResult, error) {
	expenses, err := s.List(filters)
	if err != nil {
		return nil, err
	}
	return Paginate(Sort(expenses, sort), page), nil
}

// GetByID returns nil, nil when no expense has id.
func (s *Service) GetByID(id string) (*Expense, error) {
	expenses, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (s *Service) ByDateRange(from, to time.Time) ([]*Expense, error) {
	return s.List(&Filters{DateFrom: &from, DateTo: &to})
}

func (s *Service) ByCategory(name string) ([]*Expense, error) {
	return s.List(&Filters{Category: name})
}

// Total sums every stored expense.
func (s *Service) Total() (decimal.Decimal, error) {
	expenses, err := s.load()
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total, nil
}

func (s *Service) Create(dto CreateExpenseDTO) (*Expense, error) {
	now := s.clock()
	if err := dto.Validate(now); err != nil {
		s.logger.Warn("expense validation failed", "error", err)
		return nil, err
	}

	unlock := s.repo.LockExpenses()
	defer unlock()

	expenses, err := s.load()
	if err != nil {
		return nil, err
	}

	exp := NewExpense(dto, now)
	expenses = append(expenses, exp)

	if err := s.repo.SaveExpenses(ToDataModelSlice(expenses)); err != nil {
		s.logger.Error("failed to create expense", "error", err)
		return nil, err
	}

	s.logger.Info("expense created successfully",
		"expense_id", exp.ID,
		"category", exp.Category,
		"amount", exp.Amount.StringFixed(2))
	s.publish(events.EventTypeExpenseCreated, exp)

	return exp, nil
}

func (s *Service) Update(id string, dto UpdateExpenseDTO) (*Expense, error) {
	now := s.clock()
	if err := dto.Validate(now); err != nil {
		s.logger.Warn("expense validation failed", "error", err, "expense_id", id)
		return nil, err
	}

	unlock := s.repo.LockExpenses()
	defer unlock()

	expenses, err := s.load()
	if err != nil {
		return nil, err
	}

	idx := indexOf(expenses, id)
	if idx == -1 {
		s.logger.Warn("expense not found for update", "expense_id", id)
		return nil, internal.NewNotFoundError(fmt.Sprintf("Expense with id %s not found", id), internal.ErrCodeExpenseNotFound)
	}

	updated := expenses[idx].Clone()
	updated.Apply(dto)
	updated.Touch(now)
	expenses[idx] = updated

	if err := s.repo.SaveExpenses(ToDataModelSlice(expenses)); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, err
	}

	s.logger.Info("expense updated successfully", "expense_id", id)
	s.publish(events.EventTypeExpenseUpdated, updated)

	return updated, nil
}

// Delete removes the expense with id. An unknown id is a silent no-op.
func (s *Service) Delete(id string) error {
	unlock := s.repo.LockExpenses()
	defer unlock()

	expenses, err := s.load()
	if err != nil {
		return err
	}

	idx := indexOf(expenses, id)
	if idx == -1 {
		s.logger.Debug("delete of unknown expense ignored", "expense_id", id)
		return nil
	}

	removed := expenses[idx]
	expenses = append(expenses[:idx], expenses[idx+1:]...)

	if err := s.repo.SaveExpenses(ToDataModelSlice(expenses)); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return err
	}

	s.logger.Info("expense deleted successfully", "expense_id", id)
	s.publish(events.EventTypeExpenseDeleted, removed)

	return nil
}

func (s *Service) publish(eventType string, e *Expense) {
	if s.events == nil {
		return
	}
	event := events.NewExpenseEvent(eventType, e.ID, e.Category, e.Amount.StringFixed(2))
	if err := s.events.PublishSync(context.Background(), event); err != nil {
		s.logger.Warn("expense event not delivered", "event_type", eventType, "error", err)
	}
}

func indexOf(expenses []*Expense, id string) int {
	for i, e := range expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}
