package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"quickpoll/internal/domain/vote"
)

type VoteRepo struct {
	db *sqlx.DB
}

func NewVoteRepo(db *sqlx.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

// CastVote locks the option row, inserts the vote unless the voter already
// has one, bumps the option counter and reads the poll total, all in one
// transaction.
func (r *VoteRepo) CastVote(ctx context.Context, v *vote.Vote) (*vote.Tally, error) {
	tally := &vote.Tally{PollID: v.PollID, OptionID: v.OptionID}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var current int64
		err := tx.GetContext(ctx, &current, `
            SELECT vote_count FROM options
            WHERE id = $1 AND poll_id = $2
            FOR UPDATE
        `, v.OptionID, v.PollID)
		if errors.Is(err, sql.ErrNoRows) {
			return vote.ErrOptionNotFound
		}
		if err != nil {
			return fmt.Errorf("lock option: %w", err)
		}

		err = tx.QueryRowxContext(ctx, `
            INSERT INTO votes (poll_id, option_id, voter_key, user_id, voted_at)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (poll_id, voter_key) DO NOTHING
            RETURNING id, voted_at
        `, v.PollID, v.OptionID, v.VoterKey, v.UserID, v.VotedAt).Scan(&v.ID, &v.VotedAt)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return vote.ErrAlreadyVoted
		case isForeignKeyViolation(err):
			return vote.ErrPollNotFound
		case err != nil:
			return fmt.Errorf("insert vote: %w", err)
		}

		if err := tx.GetContext(ctx, &tally.OptionVotes, `
            UPDATE options SET vote_count = vote_count + 1
            WHERE id = $1
            RETURNING vote_count
        `, v.OptionID); err != nil {
			return fmt.Errorf("increment option: %w", err)
		}

		if err := tx.GetContext(ctx, &tally.TotalVotes, `
            SELECT COALESCE(SUM(vote_count), 0) FROM options WHERE poll_id = $1
        `, v.PollID); err != nil {
			return fmt.Errorf("poll total: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tally.VotedAt = v.VotedAt
	return tally, nil
}

// lockPoll takes the poll row for the rest of tx and returns its stored like count.
func lockPoll(ctx context.Context, tx *sqlx.Tx, pollID int64) (int64, error) {
	var likes int64
	err := tx.GetContext(ctx, &likes, `SELECT like_count FROM polls WHERE id = $1 FOR NO KEY UPDATE`, pollID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, vote.ErrPollNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock poll: %w", err)
	}
	return likes, nil
}

func (r *VoteRepo) AddLike(ctx context.Context, l *vote.Like) (int64, error) {
	var total int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := lockPoll(ctx, tx, l.PollID); err != nil {
			return err
		}

		err := tx.QueryRowxContext(ctx, `
            INSERT INTO likes (poll_id, voter_key, user_id, liked_at)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (poll_id, voter_key) DO NOTHING
            RETURNING id, liked_at
        `, l.PollID, l.VoterKey, l.UserID, l.LikedAt).Scan(&l.ID, &l.LikedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return vote.ErrAlreadyLiked
		}
		if err != nil {
			return fmt.Errorf("insert like: %w", err)
		}

		if err := tx.GetContext(ctx, &total, `
            UPDATE polls SET like_count = like_count + 1
            WHERE id = $1
            RETURNING like_count
        `, l.PollID); err != nil {
			return fmt.Errorf("increment likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *VoteRepo) RemoveLike(ctx context.Context, pollID int64, voterKey string) (int64, error) {
	var total int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := lockPoll(ctx, tx, pollID); err != nil {
			return err
		}

		var id int64
		err := tx.GetContext(ctx, &id, `
            DELETE FROM likes WHERE poll_id = $1 AND voter_key = $2
            RETURNING id
        `, pollID, voterKey)
		if errors.Is(err, sql.ErrNoRows) {
			return vote.ErrLikeNotFound
		}
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}

		if err := tx.GetContext(ctx, &total, `
            UPDATE polls SET like_count = GREATEST(like_count - 1, 0)
            WHERE id = $1
            RETURNING like_count
        `, pollID); err != nil {
			return fmt.Errorf("decrement likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// FindVote returns nil without error when the voter has not voted.
func (r *VoteRepo) FindVote(ctx context.Context, pollID int64, voterKey string) (*vote.Vote, error) {
	var v vote.Vote
	err := r.db.GetContext(ctx, &v, `
        SELECT id, poll_id, option_id, voter_key, user_id, voted_at
        FROM votes WHERE poll_id = $1 AND voter_key = $2
    `, pollID, voterKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return &v, nil
}

// FindLike returns nil without error when the voter has not liked the poll.
func (r *VoteRepo) FindLike(ctx context.Context, pollID int64, voterKey string) (*vote.Like, error) {
	var l vote.Like
	err := r.db.GetContext(ctx, &l, `
        SELECT id, poll_id, voter_key, user_id, liked_at
        FROM likes WHERE poll_id = $1 AND voter_key = $2
    `, pollID, voterKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find like: %w", err)
	}
	return &l, nil
}

// VotedOption and HasLiked serve the poll detail view.
func (r *VoteRepo) VotedOption(ctx context.Context, pollID int64, voterKey string) (*int64, error) {
	v, err := r.FindVote(ctx, pollID, voterKey)
	if err != nil || v == nil {
		return nil, err
	}
	return &v.OptionID, nil
}

func (r *VoteRepo) HasLiked(ctx context.Context, pollID int64, voterKey string) (bool, error) {
	l, err := r.FindLike(ctx, pollID, voterKey)
	if err != nil {
		return false, err
	}
	return l != nil, nil
}

// Reconcile recounts votes per option and likes for the poll under row
// locks and rewrites any counter that disagrees.
func (r *VoteRepo) Reconcile(ctx context.Context, pollID int64) (*vote.Drift, error) {
	d := &vote.Drift{PollID: pollID}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		stored, err := lockPoll(ctx, tx, pollID)
		if err != nil {
			return err
		}
		d.LikesStored = stored

		var options []struct {
			ID     int64 `db:"id"`
			Stored int64 `db:"vote_count"`
			Actual int64 `db:"actual"`
		}
		if err := tx.SelectContext(ctx, &options, `
            SELECT o.id, o.vote_count,
                   (SELECT COUNT(*) FROM votes v WHERE v.option_id = o.id AND v.poll_id = o.poll_id) AS actual
            FROM options o
            WHERE o.poll_id = $1
            ORDER BY o.position, o.id
            FOR UPDATE OF o
        `, pollID); err != nil {
			return fmt.Errorf("recount votes: %w", err)
		}

		for _, o := range options {
			d.TotalVotes += o.Actual
			if o.Stored == o.Actual {
				continue
			}
			if _, err := tx.ExecContext(ctx, `UPDATE options SET vote_count = $1 WHERE id = $2`, o.Actual, o.ID); err != nil {
				return fmt.Errorf("repair option %d: %w", o.ID, err)
			}
			d.Options = append(d.Options, vote.OptionDrift{OptionID: o.ID, Stored: o.Stored, Actual: o.Actual})
		}

		if err := tx.GetContext(ctx, &d.LikesActual, `SELECT COUNT(*) FROM likes WHERE poll_id = $1`, pollID); err != nil {
			return fmt.Errorf("recount likes: %w", err)
		}
		if d.LikesActual != d.LikesStored {
			if _, err := tx.ExecContext(ctx, `UPDATE polls SET like_count = $1 WHERE id = $2`, d.LikesActual, pollID); err != nil {
				return fmt.Errorf("repair likes: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *VoteRepo) PollIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM polls ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list poll ids: %w", err)
	}
	return ids, nil
}
