package postgres

import (
	"context"
	"database/sql"
	"errors"

	"survey-system/internal/domain/survey"
)

type SurveyRepo struct {
	db *sql.DB
}

func NewSurveyRepo(db *sql.DB) *SurveyRepo {
	return &SurveyRepo{db: db}
}

// Create inserts the survey and every option in one transaction. Either the
// whole unit lands or none of it does.
func (r *SurveyRepo) Create(ctx context.Context, s *survey.Survey, options []survey.Option) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	querySurvey := `
        INSERT INTO surveys (user_id, title, description, is_active)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `

	err = tx.QueryRowContext(ctx, querySurvey,
		s.OwnerID,
		s.Title,
		s.Description,
		s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return 0, err
	}

	queryOpt := `
        INSERT INTO survey_options (survey_id, text, color)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `

	for i := range options {
		options[i].SurveyID = s.ID
		if err := tx.QueryRowContext(ctx, queryOpt, options[i].SurveyID, options[i].Text, options[i].Color).
			Scan(&options[i].ID, &options[i].CreatedAt); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return s.ID, nil
}

func (r *SurveyRepo) GetByID(ctx context.Context, id int64) (*survey.Survey, []survey.Option, error) {
	s := &survey.Survey{}
	err := r.db.QueryRowContext(ctx, `
        SELECT s.id, s.user_id, u.name, s.title, s.description, s.is_active,
               (SELECT COUNT(*) FROM votes v WHERE v.survey_id = s.id),
               s.created_at, s.updated_at
        FROM surveys s
        JOIN users u ON u.id = s.user_id
        WHERE s.id = $1
    `, id).Scan(
		&s.ID, &s.OwnerID, &s.OwnerName, &s.Title, &s.Description, &s.IsActive,
		&s.VoteCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, survey.ErrNotFound
		}
		return nil, nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, survey_id, text, color, created_at
        FROM survey_options WHERE survey_id = $1
        ORDER BY id
    `, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var opts []survey.Option
	for rows.Next() {
		var o survey.Option
		if err := rows.Scan(&o.ID, &o.SurveyID, &o.Text, &o.Color, &o.CreatedAt); err != nil {
			return nil, nil, err
		}
		opts = append(opts, o)
	}

	return s, opts, rows.Err()
}

func (r *SurveyRepo) List(ctx context.Context, callerID int64, scope survey.Scope) ([]survey.Survey, error) {
	query := `
        SELECT s.id, s.user_id, u.name, s.title, s.description, s.is_active,
               COUNT(v.id), s.created_at, s.updated_at
        FROM surveys s
        JOIN users u ON u.id = s.user_id
        LEFT JOIN votes v ON v.survey_id = s.id
    `

	switch scope {
	case survey.ScopeMine:
		query += ` WHERE s.user_id = $1`
	case survey.ScopeAdminAll:
		query += ` WHERE s.user_id <> $1`
	default:
		query += ` WHERE s.is_active AND s.user_id <> $1`
	}
	query += ` GROUP BY s.id, u.name ORDER BY s.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, callerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []survey.Survey
	for rows.Next() {
		var s survey.Survey
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.OwnerName, &s.Title, &s.Description,
			&s.IsActive, &s.VoteCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *SurveyRepo) Update(ctx context.Context, id int64, in survey.UpdateInput) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE surveys
        SET title       = COALESCE($2, title),
            description = CASE WHEN $4 THEN $3 ELSE COALESCE($3, description) END,
            is_active   = COALESCE($5, is_active),
            updated_at  = now()
        WHERE id = $1
    `, id, in.Title, in.Description, in.DescriptionSet, in.IsActive)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return survey.ErrNotFound
	}
	return nil
}

// Delete removes the survey row; options and votes go with it via
// ON DELETE CASCADE.
func (r *SurveyRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM surveys WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return survey.ErrNotFound
	}
	return nil
}

func (r *SurveyRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM surveys`).Scan(&n)
	return n, err
}
