package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/umsra/internal/services/admin/filter"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
)

var categoryList = listSpec{
	columns: "c.id, c.name",
	from:    "categories c",
	fields: filter.Fields{
		"id":   {Column: "c.id", Type: filter.FieldInt},
		"name": {Column: "c.name", Type: filter.FieldString},
	},
	search: "c.name",
	idCol:  "c.id",
	order:  "c.name ASC, c.id ASC",
}

// CreateCategory inserts a category and returns its id.
func (s *Store) CreateCategory(ctx context.Context, category storage.Category) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	category.Name = strings.TrimSpace(category.Name)
	if err := category.Validate(); err != nil {
		return 0, err
	}

	res, err := s.sqlDB.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", category.Name)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", mapWriteError(err))
	}
	return res.LastInsertId()
}

// GetCategory loads a category by id.
func (s *Store) GetCategory(ctx context.Context, id int64) (storage.Category, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Category{}, err
	}

	var c storage.Category
	err := s.sqlDB.QueryRowContext(ctx, "SELECT id, name FROM categories WHERE id = ?", id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Category{}, storage.ErrNotFound
		}
		return storage.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// UpdateCategory renames a category.
func (s *Store) UpdateCategory(ctx context.Context, category storage.Category) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	category.Name = strings.TrimSpace(category.Name)
	if err := category.Validate(); err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(ctx, "UPDATE categories SET name = ? WHERE id = ?", category.Name, category.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", mapWriteError(err))
	}
	return requireUpdated(res)
}

// DeleteCategories removes categories; entities keep existing with no category.
func (s *Store) DeleteCategories(ctx context.Context, ids []int64) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	return deleteIDs(ctx, s.sqlDB, "categories", ids)
}

// ListCategories returns one page of categories.
func (s *Store) ListCategories(ctx context.Context, query storage.ListQuery) (storage.Page[storage.Category], error) {
	if err := s.ready(ctx); err != nil {
		return storage.Page[storage.Category]{}, err
	}
	page, err := listRows(ctx, s.sqlDB, categoryList, query, func(rows *sql.Rows) (storage.Category, error) {
		var c storage.Category
		err := rows.Scan(&c.ID, &c.Name)
		return c, err
	})
	if err != nil {
		return page, fmt.Errorf("list categories: %w", err)
	}
	return page, nil
}

// GetOrCreateCategory returns the category with name, creating it if needed.
func (s *Store) GetOrCreateCategory(ctx context.Context, name string) (storage.Category, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Category{}, err
	}
	c := storage.Category{Name: strings.TrimSpace(name)}
	if err := c.Validate(); err != nil {
		return storage.Category{}, err
	}

	id, err := getOrCreateNamed(ctx, s.sqlDB, "categories", c.Name)
	if err != nil {
		return storage.Category{}, err
	}
	c.ID = id
	return c, nil
}
