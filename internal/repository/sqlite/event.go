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

var _ repository.EventRepository = (*EventDB)(nil)

// EventDB persists calendar entries.
type EventDB struct {
	conn *sql.DB
}

var eventDuplicates = map[string]string{
	"id": "Event id already exists",
}

func (e *EventDB) Create(ctx context.Context, event *model.Event) error {
	res, err := e.conn.ExecContext(ctx,
		`INSERT INTO events (id, start, end, title, category, location, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		insertID(event.ID), event.Start, event.End, event.Title,
		event.Category, event.Location, event.Description,
	)
	if err != nil {
		if dup := duplicateError(err, "events", eventDuplicates); dup != err {
			return dup
		}
		return fmt.Errorf("sqlite: inserting event %d: %w", event.ID, err)
	}
	if event.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading new event id: %w", err)
		}
		event.ID = int(id)
	}
	return nil
}

func (e *EventDB) GetByID(ctx context.Context, id int) (*model.Event, error) {
	var event model.Event
	err := e.conn.QueryRowContext(ctx,
		`SELECT id, start, end, title, category, location, description
		 FROM events WHERE id = ?`, id,
	).Scan(
		&event.ID, &event.Start, &event.End, &event.Title,
		&event.Category, &event.Location, &event.Description,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("event", strconv.Itoa(id))
		}
		return nil, fmt.Errorf("sqlite: getting event %d: %w", id, err)
	}
	return &event, nil
}

func (e *EventDB) List(ctx context.Context) ([]model.Event, error) {
	rows, err := e.conn.QueryContext(ctx,
		`SELECT id, start, end, title, category, location, description
		 FROM events ORDER BY start`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var event model.Event
		if err := rows.Scan(
			&event.ID, &event.Start, &event.End, &event.Title,
			&event.Category, &event.Location, &event.Description,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating event rows: %w", err)
	}
	return events, nil
}

func (e *EventDB) Update(ctx context.Context, event *model.Event) error {
	res, err := e.conn.ExecContext(ctx,
		`UPDATE events SET start = ?, end = ?, title = ?, category = ?, location = ?, description = ?
		 WHERE id = ?`,
		event.Start, event.End, event.Title,
		event.Category, event.Location, event.Description, event.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating event %d: %w", event.ID, err)
	}
	return notFoundIfZero(res, "event", event.ID)
}

func (e *EventDB) Delete(ctx context.Context, id int) error {
	res, err := e.conn.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting event %d: %w", id, err)
	}
	return notFoundIfZero(res, "event", id)
}
