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

var _ repository.NewsRepository = (*NewsDB)(nil)

// NewsDB persists published articles.
type NewsDB struct {
	conn *sql.DB
}

var newsDuplicates = map[string]string{
	"id": "News id already exists",
}

func (n *NewsDB) Create(ctx context.Context, item *model.NewsItem) error {
	res, err := n.conn.ExecContext(ctx,
		`INSERT INTO news (id, title, summary, content, date, author, category, image, team_id, featured)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		insertID(item.ID), item.Title, item.Summary, item.Content, item.Date,
		item.Author, item.Category, item.Image, item.TeamID, item.Featured,
	)
	if err != nil {
		if dup := duplicateError(err, "news", newsDuplicates); dup != err {
			return dup
		}
		return fmt.Errorf("sqlite: inserting news %d: %w", item.ID, err)
	}
	if item.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading new news id: %w", err)
		}
		item.ID = int(id)
	}
	return nil
}

func (n *NewsDB) GetByID(ctx context.Context, id int) (*model.NewsItem, error) {
	var item model.NewsItem
	err := n.conn.QueryRowContext(ctx,
		`SELECT id, title, summary, content, date, author, category, image, team_id, featured
		 FROM news WHERE id = ?`, id,
	).Scan(
		&item.ID, &item.Title, &item.Summary, &item.Content, &item.Date,
		&item.Author, &item.Category, &item.Image, &item.TeamID, &item.Featured,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("news", strconv.Itoa(id))
		}
		return nil, fmt.Errorf("sqlite: getting news %d: %w", id, err)
	}
	return &item, nil
}

func (n *NewsDB) List(ctx context.Context, featuredOnly bool) ([]model.NewsItem, error) {
	query := `SELECT id, title, summary, content, date, author, category, image, team_id, featured
	          FROM news`
	if featuredOnly {
		query += ` WHERE featured = 1`
	}
	query += ` ORDER BY id`

	rows, err := n.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing news: %w", err)
	}
	defer rows.Close()

	items := []model.NewsItem{}
	for rows.Next() {
		var item model.NewsItem
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Summary, &item.Content, &item.Date,
			&item.Author, &item.Category, &item.Image, &item.TeamID, &item.Featured,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning news row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating news rows: %w", err)
	}
	return items, nil
}

func (n *NewsDB) Update(ctx context.Context, item *model.NewsItem) error {
	res, err := n.conn.ExecContext(ctx,
		`UPDATE news SET title = ?, summary = ?, content = ?, date = ?, author = ?,
		                 category = ?, image = ?, team_id = ?, featured = ?
		 WHERE id = ?`,
		item.Title, item.Summary, item.Content, item.Date, item.Author,
		item.Category, item.Image, item.TeamID, item.Featured, item.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating news %d: %w", item.ID, err)
	}
	return notFoundIfZero(res, "news", item.ID)
}

func (n *NewsDB) Delete(ctx context.Context, id int) error {
	res, err := n.conn.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting news %d: %w", id, err)
	}
	return notFoundIfZero(res, "news", id)
}
