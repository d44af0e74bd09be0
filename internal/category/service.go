package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal"
	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/shopspring/decimal"
)

// RepositoryAPI is the slice of the persistence adapter the category service
// needs. Expenses are part of it because deletes are guarded by them and
// renames cascade into them.
type RepositoryAPI interface {
	LoadCategories() ([]*categoryDatamodel.Category, error)
	SaveCategories(categories []*categoryDatamodel.Category) error
	LoadExpenses() ([]*expenseDatamodel.Expense, error)
	SaveAll(categories []*categoryDatamodel.Category, expenses []*expenseDatamodel.Expense) error
	LockCategories() func()
	LockExpenses() func()
}

type Service struct {
	repo   RepositoryAPI
	clock  internal.Clock
	events events.Publisher
	logger *slog.Logger
}

// NewService creates a category service. publisher may be nil.
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

func (s *Service) load() ([]*Category, error) {
	data, err := s.repo.LoadCategories()
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}
	return FromDataModelSlice(data), nil
}

func (s *Service) List() ([]*Category, error) {
	categories, err := s.load()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetByID returns nil, nil when no category has id.
func (s *Service) GetByID(id string) (*Category, error) {
	categories, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

// GetByName matches case-insensitively; nil, nil when absent.
func (s *Service) GetByName(name string) (*Category, error) {
	categories, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.HasName(name) {
			return c, nil
		}
	}
	return nil, nil
}

func (s *Service) IsValidCategory(name string) bool {
	c, err := s.GetByName(name)
	if err != nil {
		s.logger.Warn("error checking category validity", "name", name, "error", err)
		return false
	}
	return c != nil
}

func (s *Service) Create(dto CreateCategoryDTO) (*Category, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("category validation failed", "error", err)
		return nil, err
	}

	unlock := s.repo.LockCategories()
	defer unlock()

	categories, err := s.load()
	if err != nil {
		return nil, err
	}

	if duplicateOf(categories, dto.Name, "") != nil {
		s.logger.Warn("duplicate category name rejected", "name", dto.Name)
		return nil, duplicateNameError(dto.Name)
	}

	cat := NewCategory(dto, s.clock())
	categories = append(categories, cat)

	if err := s.repo.SaveCategories(ToDataModelSlice(categories)); err != nil {
		s.logger.Error("failed to create category", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("category created successfully", "category_id", cat.ID, "name", cat.Name)
	s.publish(events.NewCategoryEvent(events.EventTypeCategoryCreated, cat.ID, cat.Name))

	return cat, nil
}

// Update applies dto. A name change is written together with every expense
// that referenced the old name.
func (s *Service) Update(id string, dto UpdateCategoryDTO) (*Category, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("category validation failed", "error", err, "category_id", id)
		return nil, err
	}

	unlockCategories := s.repo.LockCategories()
	defer unlockCategories()
	unlockExpenses := s.repo.LockExpenses()
	defer unlockExpenses()

	categories, err := s.load()
	if err != nil {
		return nil, err
	}

	idx := indexOf(categories, id)
	if idx == -1 {
		s.logger.Warn("category not found for update", "category_id", id)
		return nil, notFoundError(id)
	}

	current := categories[idx]
	updated := current.Clone()

	renamed := dto.Name != nil && *dto.Name != current.Name
	if renamed {
		if duplicateOf(categories, *dto.Name, id) != nil {
			s.logger.Warn("duplicate category name rejected", "name", *dto.Name, "category_id", id)
			return nil, duplicateNameError(*dto.Name)
		}
		updated.Name = *dto.Name
	}
	if dto.Color != nil {
		updated.Color = *dto.Color
	}
	if dto.Icon != nil {
		updated.Icon = *dto.Icon
	}
	categories[idx] = updated

	if !renamed {
		if err := s.repo.SaveCategories(ToDataModelSlice(categories)); err != nil {
			s.logger.Error("failed to update category", "error", err, "category_id", id)
			return nil, err
		}
		s.logger.Info("category updated successfully", "category_id", id)
		s.publish(events.NewCategoryEvent(events.EventTypeCategoryUpdated, id, updated.Name))
		return updated, nil
	}

	expenseData, err := s.repo.LoadExpenses()
	if err != nil {
		s.logger.Error("failed to load expenses for rename", "error", err, "category_id", id)
		return nil, err
	}
	expenses := expense.FromDataModelSlice(expenseData)

	now := s.clock()
	affected := 0
	for _, e := range expenses {
		if e.Category == current.Name {
			e.Category = updated.Name
			e.Touch(now)
			affected++
		}
	}

	if err := s.repo.SaveAll(ToDataModelSlice(categories), expense.ToDataModelSlice(expenses)); err != nil {
		s.logger.Error("failed to rename category", "error", err, "category_id", id)
		return nil, err
	}

	s.logger.Info("category renamed successfully",
		"category_id", id,
		"old_name", current.Name,
		"new_name", updated.Name,
		"expenses_affected", affected)
	s.publish(events.NewCategoryRenamedEvent(id, current.Name, updated.Name, affected))

	return updated, nil
}

// Delete removes an unreferenced category.
func (s *Service) Delete(id string) error {
	unlockCategories := s.repo.LockCategories()
	defer unlockCategories()
	unlockExpenses := s.repo.LockExpenses()
	defer unlockExpenses()

	categories, err := s.load()
	if err != nil {
		return err
	}

	idx := indexOf(categories, id)
	if idx == -1 {
		s.logger.Warn("category not found for delete", "category_id", id)
		return notFoundError(id)
	}
	cat := categories[idx]

	expenses, err := s.repo.LoadExpenses()
	if err != nil {
		s.logger.Error("failed to load expenses for delete guard", "error", err, "category_id", id)
		return err
	}
	inUse := 0
	for _, e := range expenses {
		if e.Category == cat.Name {
			inUse++
		}
	}
	if inUse > 0 {
		s.logger.Warn("category delete blocked by expenses", "category_id", id, "name", cat.Name, "expenses", inUse)
		return internal.NewConflictError(
			fmt.Sprintf("Cannot delete category %q because it has %d associated expenses. Please reassign or delete those expenses first.", cat.Name, inUse),
			internal.ErrCodeCategoryInUse,
		).WithDetails(map[string]interface{}{"category": cat.Name, "expenses": inUse})
	}

	categories = append(categories[:idx], categories[idx+1:]...)
	if err := s.repo.SaveCategories(ToDataModelSlice(categories)); err != nil {
		s.logger.Error("failed to delete category", "error", err, "category_id", id)
		return err
	}

	s.logger.Info("category deleted successfully", "category_id", id, "name", cat.Name)
	s.publish(events.NewCategoryEvent(events.EventTypeCategoryDeleted, id, cat.Name))

	return nil
}

// Stats lists every category with its all-time total and transaction count,
// including categories nobody has used yet.
func (s *Service) Stats() ([]*Stats, error) {
	categories, err := s.load()
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.LoadExpenses()
	if err != nil {
		s.logger.Error("failed to load expenses for stats", "error", err)
		return nil, err
	}

	byName := make(map[string]*Stats, len(categories))
	result := make([]*Stats, len(categories))
	for i, c := range categories {
		result[i] = &Stats{Category: *c, TotalSpent: decimal.Zero}
		byName[c.Name] = result[i]
	}
	for _, e := range expenses {
		if st, ok := byName[e.Category]; ok {
			st.TotalSpent = st.TotalSpent.Add(e.Amount)
			st.TransactionCount++
		}
	}
	return result, nil
}

func (s *Service) publish(event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishSync(context.Background(), event); err != nil {
		s.logger.Warn("category event not delivered", "event_type", event.EventType(), "error", err)
	}
}

func indexOf(categories []*Category, id string) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// duplicateOf finds a category other than exceptID holding name.
func duplicateOf(categories []*Category, name, exceptID string) *Category {
	for _, c := range categories {
		if c.ID != exceptID && c.HasName(name) {
			return c
		}
	}
	return nil
}

func notFoundError(id string) error {
	return internal.NewNotFoundError(fmt.Sprintf("Category with id %s not found", id), internal.ErrCodeCategoryNotFound)
}

func duplicateNameError(name string) error {
	return internal.NewConflictError(fmt.Sprintf("Category name %q is already in use", name), internal.ErrCodeDuplicateName)
}
