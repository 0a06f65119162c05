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

var _ repository.TeamRepository = (*TeamDB)(nil)

// TeamDB persists teams. Achievements and the next-match summary are opaque
// to every query we run, so they live in JSON text columns instead of
// normalized tables.
type TeamDB struct {
	conn *sql.DB
}

var teamDuplicates = map[string]string{
	"id": "Team id already exists",
}

func (t *TeamDB) Create(ctx context.Context, team *model.Team) error {
	achievements, nextMatch, err := encodeTeamJSON(team)
	if err != nil {
		return err
	}

	res, err := t.conn.ExecContext(ctx,
		`INSERT INTO teams (id, sport, name, category, description, founded, captain,
		                    players_count, achievements, next_match, image)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		insertID(team.ID), team.Sport, team.Name, team.Category, team.Description,
		team.Founded, team.Captain, team.PlayersCount, achievements, nextMatch, team.Image,
	)
	if err != nil {
		if dup := duplicateError(err, "teams", teamDuplicates); dup != err {
			return dup
		}
		return fmt.Errorf("sqlite: inserting team %d: %w", team.ID, err)
	}
	if team.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading new team id: %w", err)
		}
		team.ID = int(id)
	}
	return nil
}

func (t *TeamDB) GetByID(ctx context.Context, id int) (*model.Team, error) {
	row := t.conn.QueryRowContext(ctx,
		`SELECT id, sport, name, category, description, founded, captain,
		        players_count, achievements, next_match, image
		 FROM teams WHERE id = ?`, id,
	)
	team, err := scanTeam(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("team", strconv.Itoa(id))
		}
		return nil, fmt.Errorf("sqlite: getting team %d: %w", id, err)
	}
	return team, nil
}

func (t *TeamDB) List(ctx context.Context) ([]model.Team, error) {
	rows, err := t.conn.QueryContext(ctx,
		`SELECT id, sport, name, category, description, founded, captain,
		        players_count, achievements, next_match, image
		 FROM teams ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing teams: %w", err)
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		team, err := scanTeam(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning team row: %w", err)
		}
		teams = append(teams, *team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating team rows: %w", err)
	}
	return teams, nil
}

func (t *TeamDB) Update(ctx context.Context, team *model.Team) error {
	achievements, nextMatch, err := encodeTeamJSON(team)
	if err != nil {
		return err
	}

	res, err := t.conn.ExecContext(ctx,
		`UPDATE teams SET sport = ?, name = ?, category = ?, description = ?, founded = ?,
		                  captain = ?, players_count = ?, achievements = ?, next_match = ?, image = ?
		 WHERE id = ?`,
		team.Sport, team.Name, team.Category, team.Description, team.Founded,
		team.Captain, team.PlayersCount, achievements, nextMatch, team.Image, team.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating team %d: %w", team.ID, err)
	}
	return notFoundIfZero(res, "team", team.ID)
}

func (t *TeamDB) Delete(ctx context.Context, id int) error {
	res, err := t.conn.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting team %d: %w", id, err)
	}
	return notFoundIfZero(res, "team", id)
}

func encodeTeamJSON(team *model.Team) (achievements string, nextMatch sql.NullString, err error) {
	raw, err := json.Marshal(team.Achievements)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("sqlite: encoding achievements: %w", err)
	}
	achievements = string(raw)
	if team.Achievements == nil {
		achievements = "[]"
	}

	if team.NextMatch != nil {
		raw, err := json.Marshal(team.NextMatch)
		if err != nil {
			return "", sql.NullString{}, fmt.Errorf("sqlite: encoding next match: %w", err)
		}
		nextMatch = sql.NullString{String: string(raw), Valid: true}
	}
	return achievements, nextMatch, nil
}

func scanTeam(scan func(dest ...any) error) (*model.Team, error) {
	var (
		team         model.Team
		achievements string
		nextMatch    sql.NullString
	)
	if err := scan(
		&team.ID, &team.Sport, &team.Name, &team.Category, &team.Description,
		&team.Founded, &team.Captain, &team.PlayersCount, &achievements, &nextMatch, &team.Image,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(achievements), &team.Achievements); err != nil {
		return nil, fmt.Errorf("decoding achievements: %w", err)
	}
	if nextMatch.Valid {
		team.NextMatch = &model.NextMatch{}
		if err := json.Unmarshal([]byte(nextMatch.String), team.NextMatch); err != nil {
			return nil, fmt.Errorf("decoding next match: %w", err)
		}
	}
	return &team, nil
}

// notFoundIfZero converts a zero-rows-affected write into apperror.NotFound.
// Shared by every resource repo's Update/Delete.
func notFoundIfZero(res sql.Result, resource string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, strconv.Itoa(id))
	}
	return nil
}
