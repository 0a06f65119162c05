package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/anakena/club-server/internal/apperror"
	"github.com/anakena/club-server/internal/model"
	"github.com/anakena/club-server/internal/repository"
)

var _ repository.StoreRepository = (*StoreDB)(nil)

// StoreDB persists the merchandise catalog.
type StoreDB struct {
	conn *sql.DB
}

var storeDuplicates = map[string]string{
	"id": "Store item id already exists",
}

func (s *StoreDB) Create(ctx context.Context, item *model.StoreItem) error {
	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO store_items (id, label, price, image, category)
		 VALUES (?, ?, ?, ?, ?)`,
		insertID(item.ID), item.Label, item.Price, item.Image, item.Category,
	)
	if err != nil {
		if dup := duplicateError(err, "store_items", storeDuplicates); dup != err {
			return dup
		}
		return fmt.Errorf("sqlite: inserting store item %d: %w", item.ID, err)
	}
	if item.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading new store item id: %w", err)
		}
		item.ID = int(id)
	}
	return nil
}

func (s *StoreDB) GetByID(ctx context.Context, id int) (*model.StoreItem, error) {
	var item model.StoreItem
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, label, price, image, category FROM store_items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Label, &item.Price, &item.Image, &item.Category)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("store item", strconv.Itoa(id))
		}
		return nil, fmt.Errorf("sqlite: getting store item %d: %w", id, err)
	}
	return &item, nil
}

func (s *StoreDB) List(ctx context.Context) ([]model.StoreItem, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, label, price, image, category FROM store_items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing store items: %w", err)
	}
	defer rows.Close()

	items := []model.StoreItem{}
	for rows.Next() {
		var item model.StoreItem
		if err := rows.Scan(&item.ID, &item.Label, &item.Price, &item.Image, &item.Category); err != nil {
			return nil, fmt.Errorf("sqlite: scanning store item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating store item rows: %w", err)
	}
	return items, nil
}

func (s *StoreDB) Update(ctx context.Context, item *model.StoreItem) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE store_items SET label = ?, price = ?, image = ?, category = ? WHERE id = ?`,
		item.Label, item.Price, item.Image, item.Category, item.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating store item %d: %w", item.ID, err)
	}
	return notFoundIfZero(res, "store item", item.ID)
}

func (s *StoreDB) Delete(ctx context.Context, id int) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM store_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting store item %d: %w", id, err)
	}
	return notFoundIfZero(res, "store item", id)
}
