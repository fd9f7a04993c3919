package storage

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/logger"
	"github.com/BolkaZ/Tracker/internal/models"
)

var categoryTable = Table[models.Category]{
	Name:    "categories",
	Entity:  constants.EntityCategory,
	Key:     "id",
	Columns: []string{"id", "title", "title_key", "created_at"},
	Scan: func(r scanner) (models.Category, error) {
		var id, title, key, createdAt string
		if err := r.Scan(&id, &title, &key, &createdAt); err != nil {
			return models.Category{}, err
		}
		c := models.Category{Title: title}
		var err error
		if c.ID, err = parseID("category id", id); err != nil {
			return models.Category{}, err
		}
		if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return models.Category{}, err
		}
		return c, nil
	},
	Values: func(c models.Category) []any {
		return []any{c.ID.String(), c.Title, titleKey(c.Title), formatTime(c.CreatedAt)}
	},
	KeyOf:    func(c models.Category) uuid.UUID { return c.ID },
	NotFound: ErrCategoryNotFound,
}

// CategoryStore manages categories. Titles are unique case-insensitively
// and are the lookup key of every method.
type CategoryStore struct {
	db   *DB
	rows *Store[models.Category]
}

func NewCategoryStore(db *DB) *CategoryStore {
	return &CategoryStore{db: db, rows: NewStore(db, categoryTable)}
}

func (s *CategoryStore) Create(ctx context.Context, title string) (models.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Category{}, ErrInvalidTitle
	}

	c := models.Category{ID: uuid.New(), Title: title, CreatedAt: s.db.Now()}
	err := s.rows.Mutate(ctx, OpCreate, c.ID, func(tx *Tx) error {
		taken, err := tx.exists(ctx, "SELECT 1 FROM categories WHERE title_key = ?", titleKey(title))
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateTitle
		}
		if err := s.rows.insert(ctx, tx, c); err != nil {
			if s.db.isUniqueViolation(err) {
				return ErrDuplicateTitle
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}

	logger.Debug("Created category", "id", c.ID, "title", c.Title)
	return c, nil
}

// Rename changes a category's title in place. Changing only the case of
// the current title is allowed.
func (s *CategoryStore) Rename(ctx context.Context, oldTitle, newTitle string) error {
	newTitle = strings.TrimSpace(newTitle)

	return s.rows.Mutate(ctx, OpUpdate, uuid.Nil, func(tx *Tx) error {
		c, err := s.byTitle(ctx, tx, oldTitle)
		if err != nil {
			return err
		}
		tx.setID(c.ID)

		if newTitle == "" {
			return ErrInvalidTitle
		}
		if titleKey(newTitle) != titleKey(c.Title) {
			taken, err := tx.exists(ctx, "SELECT 1 FROM categories WHERE title_key = ?", titleKey(newTitle))
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateTitle
			}
		}

		c.Title = newTitle
		if err := s.rows.update(ctx, tx, c); err != nil {
			if s.db.isUniqueViolation(err) {
				return ErrDuplicateTitle
			}
			return err
		}
		return nil
	})
}

// Delete removes an empty category.
func (s *CategoryStore) Delete(ctx context.Context, title string) error {
	return s.rows.Mutate(ctx, OpDelete, uuid.Nil, func(tx *Tx) error {
		c, err := s.byTitle(ctx, tx, title)
		if err != nil {
			return err
		}
		tx.setID(c.ID)

		used, err := tx.exists(ctx, "SELECT 1 FROM trackers WHERE category_id = ?", c.ID.String())
		if err != nil {
			return err
		}
		if used {
			return ErrCategoryNotEmpty
		}
		return s.rows.delete(ctx, tx, c.ID)
	})
}

// List returns every category ordered by title, case-insensitive.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.rows.List(ctx, Query{OrderBy: []string{"title_key"}})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(categories, func(a, b models.Category) int {
		return models.CompareTitles(a.Title, b.Title)
	})
	return categories, nil
}

// Get resolves a category by title, case-insensitive.
func (s *CategoryStore) Get(ctx context.Context, title string) (models.Category, error) {
	c, err := s.byTitle(ctx, s.db, title)
	return c, s.db.wrap("get category", err)
}

// Ensure returns the category with the given title, creating it first if
// it does not exist.
func (s *CategoryStore) Ensure(ctx context.Context, title string) (models.Category, error) {
	c, err := s.Get(ctx, title)
	if !errors.Is(err, ErrCategoryNotFound) {
		return c, err
	}

	c, err = s.Create(ctx, title)
	if errors.Is(err, ErrDuplicateTitle) {
		// lost a race with another creator
		return s.Get(ctx, title)
	}
	return c, err
}

func (s *CategoryStore) Subscribe(fn func(Change)) (unsubscribe func()) {
	return s.rows.Subscribe(fn)
}

func (s *CategoryStore) byTitle(ctx context.Context, q querier, title string) (models.Category, error) {
	return categoryByTitle(ctx, s.rows, q, title)
}

func categoryByTitle(ctx context.Context, rows *Store[models.Category], q querier, title string) (models.Category, error) {
	key := titleKey(title)
	if key == "" {
		return models.Category{}, ErrCategoryNotFound
	}
	found, err := rows.list(ctx, q, Query{Where: "title_key = ?", Args: []any{key}})
	if err != nil {
		return models.Category{}, err
	}
	if len(found) == 0 {
		return models.Category{}, ErrCategoryNotFound
	}
	return found[0], nil
}
