package postgres

import (
	"context"
	"database/sql"
	"errors"

	"survey-system/internal/domain/vote"
)

type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

// Create appends one vote row. votes carries no unique (survey_id, user_id)
// index on purpose: admins may vote repeatedly. For everyone else the
// one-vote rule is enforced here atomically: an advisory lock on the
// (survey, user) pair followed by a conditional insert, so two racing attempts
// by the same user serialize on the lock and the loser sees the winner's row.
func (r *VoteRepo) Create(ctx context.Context, v *vote.Vote, enforceSingle bool) error {
	if !enforceSingle {
		return r.db.QueryRowContext(ctx, `
            INSERT INTO votes (survey_id, option_id, user_id)
            VALUES ($1, $2, $3)
            RETURNING id, created_at
        `, v.SurveyID, v.OptionID, v.UserID).Scan(&v.ID, &v.CreatedAt)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Single-bigint lock key hashed from the pair; the two-int4 form would
	// overflow once bigserial ids pass 2^31-1.
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text || ':' || $2::text, 0))`,
		v.SurveyID, v.UserID,
	); err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, `
        INSERT INTO votes (survey_id, option_id, user_id)
        SELECT $1, $2, $3
        WHERE NOT EXISTS (
            SELECT 1 FROM votes WHERE survey_id = $1 AND user_id = $3
        )
        RETURNING id, created_at
    `, v.SurveyID, v.OptionID, v.UserID).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vote.ErrAlreadyVoted
		}
		return err
	}

	return tx.Commit()
}

func (r *VoteRepo) Exists(ctx context.Context, surveyID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM votes WHERE survey_id = $1 AND user_id = $2
        )
    `, surveyID, userID).Scan(&exists)
	return exists, err
}

func (r *VoteRepo) SurveyMeta(ctx context.Context, surveyID int64) (*vote.SurveyMeta, error) {
	m := &vote.SurveyMeta{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, user_id, is_active FROM surveys WHERE id = $1
    `, surveyID).Scan(&m.ID, &m.OwnerID, &m.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vote.ErrSurveyNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *VoteRepo) OptionBelongs(ctx context.Context, optionID, surveyID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM survey_options WHERE id = $1 AND survey_id = $2
        )
    `, optionID, surveyID).Scan(&exists)
	return exists, err
}

// CountBySurvey returns one row per option in insertion order, options with
// zero votes included.
func (r *VoteRepo) CountBySurvey(ctx context.Context, surveyID int64) ([]vote.OptionCount, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT o.id, o.text, o.color, COUNT(v.id)
        FROM survey_options o
        LEFT JOIN votes v ON v.option_id = o.id
        WHERE o.survey_id = $1
        GROUP BY o.id
        ORDER BY o.id
    `, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []vote.OptionCount
	for rows.Next() {
		var c vote.OptionCount
		if err := rows.Scan(&c.OptionID, &c.Text, &c.Color, &c.Votes); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *VoteRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes`).Scan(&n)
	return n, err
}
