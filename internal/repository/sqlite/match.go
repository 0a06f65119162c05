package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/anakena/club-server/internal/apperror"
	"github.com/anakena/club-server/internal/model"
	"github.com/anakena/club-server/internal/repository"
)

var _ repository.MatchRepository = (*MatchDB)(nil)

// MatchDB persists fixtures. The score, present only once a match finishes,
// is a nullable JSON column.
type MatchDB struct {
	conn *sql.DB
}

var matchDuplicates = map[string]string{
	"id": "Match id already exists",
}

func (m *MatchDB) Create(ctx context.Context, match *model.Match) error {
	result, err := encodeMatchResult(match)
	if err != nil {
		return err
	}

	res, err := m.conn.ExecContext(ctx,
		`INSERT INTO matches (id, team_id, opponent, date, time, location, type, status, result, tournament)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		insertID(match.ID), match.TeamID, match.Opponent, match.Date, match.Time,
		match.Location, match.Type, match.Status, result, match.Tournament,
	)
	if err != nil {
		if dup := duplicateError(err, "matches", matchDuplicates); dup != err {
			return dup
		}
		return fmt.Errorf("sqlite: inserting match %d: %w", match.ID, err)
	}
	if match.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading new match id: %w", err)
		}
		match.ID = int(id)
	}
	return nil
}

func (m *MatchDB) GetByID(ctx context.Context, id int) (*model.Match, error) {
	row := m.conn.QueryRowContext(ctx,
		`SELECT id, team_id, opponent, date, time, location, type, status, result, tournament
		 FROM matches WHERE id = ?`, id,
	)
	match, err := scanMatch(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("match", strconv.Itoa(id))
		}
		return nil, fmt.Errorf("sqlite: getting match %d: %w", id, err)
	}
	return match, nil
}

func (m *MatchDB) List(ctx context.Context, teamID int) ([]model.Match, error) {
	query := `SELECT id, team_id, opponent, date, time, location, type, status, result, tournament
	          FROM matches`
	args := []any{}
	if teamID > 0 {
		query += ` WHERE team_id = ?`
		args = append(args, teamID)
	}
	query += ` ORDER BY id`

	rows, err := m.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing matches: %w", err)
	}
	defer rows.Close()

	matches := []model.Match{}
	for rows.Next() {
		match, err := scanMatch(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning match row: %w", err)
		}
		matches = append(matches, *match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating match rows: %w", err)
	}
	return matches, nil
}

func (m *MatchDB) Update(ctx context.Context, match *model.Match) error {
	result, err := encodeMatchResult(match)
	if err != nil {
		return err
	}

	res, err := m.conn.ExecContext(ctx,
		`UPDATE matches SET team_id = ?, opponent = ?, date = ?, time = ?, location = ?,
		                    type = ?, status = ?, result = ?, tournament = ?
		 WHERE id = ?`,
		match.TeamID, match.Opponent, match.Date, match.Time, match.Location,
		match.Type, match.Status, result, match.Tournament, match.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating match %d: %w", match.ID, err)
	}
	return notFoundIfZero(res, "match", match.ID)
}

func (m *MatchDB) Delete(ctx context.Context, id int) error {
	res, err := m.conn.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting match %d: %w", id, err)
	}
	return notFoundIfZero(res, "match", id)
}

func encodeMatchResult(match *model.Match) (sql.NullString, error) {
	if match.Result == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(match.Result)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("sqlite: encoding match result: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func scanMatch(scan func(dest ...any) error) (*model.Match, error) {
	var (
		match  model.Match
		result sql.NullString
	)
	if err := scan(
		&match.ID, &match.TeamID, &match.Opponent, &match.Date, &match.Time,
		&match.Location, &match.Type, &match.Status, &result, &match.Tournament,
	); err != nil {
		return nil, err
	}

	if result.Valid {
		match.Result = &model.MatchResult{}
		if err := json.Unmarshal([]byte(result.String), match.Result); err != nil {
			return nil, fmt.Errorf("decoding match result: %w", err)
		}
	}
	return &match, nil
}
