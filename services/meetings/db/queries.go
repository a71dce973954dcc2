package db

import (
	"context"
	"database/sql"
)

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

const upsertMeeting = `
INSERT INTO meeting_cache (id, payload, created_at)
VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at
`

type UpsertMeetingParams struct {
	Id        string
	Payload   string
	CreatedAt int64
}

func (q *Queries) UpsertMeeting(ctx context.Context, params UpsertMeetingParams) error {
	_, err := q.db.ExecContext(ctx, upsertMeeting, params.Id, params.Payload, params.CreatedAt)
	return err
}

const getMeeting = `
SELECT payload, created_at FROM meeting_cache WHERE id = ?
`

type GetMeetingRow struct {
	Payload   string
	CreatedAt int64
}

func (q *Queries) GetMeeting(ctx context.Context, id string) (GetMeetingRow, error) {
	var row GetMeetingRow
	err := q.db.QueryRowContext(ctx, getMeeting, id).Scan(&row.Payload, &row.CreatedAt)
	return row, err
}

const deleteMeetingsBefore = `
DELETE FROM meeting_cache WHERE created_at < ?
`

func (q *Queries) DeleteMeetingsBefore(ctx context.Context, cutoff int64) error {
	_, err := q.db.ExecContext(ctx, deleteMeetingsBefore, cutoff)
	return err
}
