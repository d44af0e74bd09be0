// Package storage is the persistence adapter: it keeps the expense and
// category collections as JSON documents in a text key-value store.
//
// Every mutation rewrites a whole collection. The per-collection mutexes only
// serialize writers inside one process; two processes sharing a backend can
// still overwrite each other's changes.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/frahmantamala/expense-tracker/internal"
	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
)

const (
	ExpensesKey    = "expenses"
	CategoriesKey  = "categories"
	InitializedKey = "initialized"
)

// ErrQuotaExceeded is returned by KeyValue backends when a write would push
// the stored payload over the configured size budget.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// KeyValue is a durable store of text values.
type KeyValue interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// SetMany writes every entry or none of them.
	SetMany(entries map[string]string) error
	Remove(keys ...string) error
}

type Store struct {
	kv     KeyValue
	logger *slog.Logger

	expensesMu   sync.Mutex
	categoriesMu sync.Mutex
}

func NewStore(kv KeyValue, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
	}
}

// LockExpenses serializes read-modify-write cycles on the expense
// collection. When both locks are needed take LockCategories first.
func (s *Store) LockExpenses() func() {
	s.expensesMu.Lock()
	return s.expensesMu.Unlock
}

func (s *Store) LockCategories() func() {
	s.categoriesMu.Lock()
	return s.categoriesMu.Unlock
}

func (s *Store) LoadExpenses() ([]*expenseDatamodel.Expense, error) {
	return loadCollection[expenseDatamodel.Expense](s, ExpensesKey)
}

func (s *Store) SaveExpenses(expenses []*expenseDatamodel.Expense) error {
	payload, err := encode(ExpensesKey, expenses)
	if err != nil {
		return err
	}
	return s.write(map[string]string{ExpensesKey: payload})
}

func (s *Store) LoadCategories() ([]*categoryDatamodel.Category, error) {
	return loadCollection[categoryDatamodel.Category](s, CategoriesKey)
}

func (s *Store) SaveCategories(categories []*categoryDatamodel.Category) error {
	payload, err := encode(CategoriesKey, categories)
	if err != nil {
		return err
	}
	return s.write(map[string]string{CategoriesKey: payload})
}

// SaveAll writes both collections in a single backend operation, so either
// both land or neither does.
func (s *Store) SaveAll(categories []*categoryDatamodel.Category, expenses []*expenseDatamodel.Expense) error {
	categoriesPayload, err := encode(CategoriesKey, categories)
	if err != nil {
		return err
	}
	expensesPayload, err := encode(ExpensesKey, expenses)
	if err != nil {
		return err
	}
	return s.write(map[string]string{
		CategoriesKey: categoriesPayload,
		ExpensesKey:   expensesPayload,
	})
}

// Has reports whether key holds a value, parseable or not.
func (s *Store) Has(key string) (bool, error) {
	_, ok, err := s.kv.Get(key)
	if err != nil {
		s.logger.Error("failed to read storage key", "key", key, "error", err)
		return false, internal.NewInternalError("failed to read storage", err)
	}
	return ok, nil
}

func (s *Store) IsInitialized() (bool, error) {
	value, ok, err := s.kv.Get(InitializedKey)
	if err != nil {
		s.logger.Error("failed to read initialization marker", "error", err)
		return false, internal.NewInternalError("failed to read storage", err)
	}
	return ok && value == "true", nil
}

func (s *Store) MarkInitialized() error {
	return s.write(map[string]string{InitializedKey: "true"})
}

// Clear removes both collections and the initialization marker.
func (s *Store) Clear() error {
	if err := s.kv.Remove(ExpensesKey, CategoriesKey, InitializedKey); err != nil {
		s.logger.Error("failed to clear storage", "error", err)
		return internal.NewInternalError("failed to clear storage", err)
	}
	return nil
}

// loadCollection decodes the array stored under key. A missing key is an
// empty collection. So is a corrupt payload: it is logged and dropped as a
// whole, never partially decoded.
func loadCollection[T any](s *Store, key string) ([]*T, error) {
	payload, ok, err := s.kv.Get(key)
	if err != nil {
		s.logger.Error("failed to read storage key", "key", key, "error", err)
		return nil, internal.NewInternalError("failed to read storage", err)
	}
	if !ok || payload == "" {
		return []*T{}, nil
	}

	var decoded []*T
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		s.logger.Warn("discarding unparseable collection", "key", key, "error", err)
		return []*T{}, nil
	}

	items := make([]*T, 0, len(decoded))
	for _, item := range decoded {
		if item != nil {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *Store) write(entries map[string]string) error {
	var err error
	if len(entries) == 1 {
		for key, value := range entries {
			err = s.kv.Set(key, value)
		}
	} else {
		err = s.kv.SetMany(entries)
	}
	if err == nil {
		return nil
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	if errors.Is(err, ErrQuotaExceeded) {
		s.logger.Warn("storage quota exceeded", "keys", keys)
		return internal.NewStorageError("Storage quota exceeded. Please delete old expenses.", internal.ErrCodeStorageQuotaExceeded).
			WithCause(err)
	}
	s.logger.Error("failed to write storage", "keys", keys, "error", err)
	return internal.NewInternalError("failed to write storage", err)
}

func encode(key string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", internal.NewInternalError(fmt.Sprintf("failed to serialize %s", key), err)
	}
	return string(b), nil
}
