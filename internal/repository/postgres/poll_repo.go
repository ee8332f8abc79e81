package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"quickpoll/internal/domain/poll"
)

type PollRepo struct {
	db *sqlx.DB
}

func NewPollRepo(db *sqlx.DB) *PollRepo {
	return &PollRepo{db: db}
}

const pollColumns = `
    p.id, p.title, p.description, p.is_active, p.expires_at, p.owner_key, p.owner_id,
    p.created_by, p.like_count, p.created_at, p.updated_at,
    COALESCE((SELECT SUM(o.vote_count) FROM options o WHERE o.poll_id = p.id), 0) AS total_votes
`

func (r *PollRepo) Create(ctx context.Context, p *poll.Poll, options []poll.Option) (int64, error) {
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
            INSERT INTO polls (title, description, is_active, expires_at, owner_key, owner_id, created_by)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING id, created_at, updated_at
        `, p.Title, p.Description, p.IsActive, p.ExpiresAt, p.OwnerKey, p.OwnerID, p.CreatedBy).
			Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert poll: %w", err)
		}

		for i := range options {
			options[i].PollID = p.ID
			if err := tx.QueryRowxContext(ctx, `
                INSERT INTO options (poll_id, text, position)
                VALUES ($1, $2, $3)
                RETURNING id
            `, p.ID, options[i].Text, options[i].Position).Scan(&options[i].ID); err != nil {
				if isUniqueViolation(err) {
					return poll.ErrDuplicateOptions
				}
				return fmt.Errorf("insert option: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (r *PollRepo) GetByID(ctx context.Context, id int64) (*poll.Poll, error) {
	var p poll.Poll
	err := r.db.GetContext(ctx, &p, `SELECT `+pollColumns+` FROM polls p WHERE p.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, poll.ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get poll: %w", err)
	}

	if err := r.db.SelectContext(ctx, &p.Options, `
        SELECT id, poll_id, text, position, vote_count
        FROM options WHERE poll_id = $1
        ORDER BY position, id
    `, id); err != nil {
		return nil, fmt.Errorf("get options: %w", err)
	}
	return &p, nil
}

func (r *PollRepo) Counts(ctx context.Context, id int64) (*poll.Counts, error) {
	var rows []struct {
		ID        int64 `db:"id"`
		VoteCount int64 `db:"vote_count"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, vote_count FROM options WHERE poll_id = $1`, id); err != nil {
		return nil, fmt.Errorf("option counts: %w", err)
	}

	c := &poll.Counts{Options: make(map[int64]int64, len(rows))}
	err := r.db.GetContext(ctx, &c.Likes, `SELECT like_count FROM polls WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, poll.ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("like count: %w", err)
	}

	for _, row := range rows {
		c.Options[row.ID] = row.VoteCount
	}
	return c, nil
}

func (r *PollRepo) List(ctx context.Context, limit, offset int) ([]poll.Poll, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM polls`); err != nil {
		return nil, 0, fmt.Errorf("count polls: %w", err)
	}

	var polls []poll.Poll
	if err := r.db.SelectContext(ctx, &polls, `
        SELECT `+pollColumns+`
        FROM polls p
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT $1 OFFSET $2
    `, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list polls: %w", err)
	}
	return polls, total, nil
}

func (r *PollRepo) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE polls SET is_active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set poll active: %w", err)
	}
	return expectRow(res, poll.ErrPollNotFound)
}

func (r *PollRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	return expectRow(res, poll.ErrPollNotFound)
}

func (r *PollRepo) DeactivateExpired(ctx context.Context, now time.Time) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `
        UPDATE polls SET is_active = FALSE, updated_at = now()
        WHERE is_active AND expires_at IS NOT NULL AND expires_at <= $1
        RETURNING id
    `, now); err != nil {
		return nil, fmt.Errorf("deactivate expired polls: %w", err)
	}
	return ids, nil
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
