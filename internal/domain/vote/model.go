package vote

import (
	"context"
	"time"
)

type Vote struct {
	ID        int64     `json:"id"`
	SurveyID  int64     `json:"survey_id"`
	OptionID  int64     `json:"option_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SurveyMeta is the slice of survey state the admissibility checks need.
type SurveyMeta struct {
	ID       int64
	OwnerID  int64
	IsActive bool
}

// OptionCount is one option's raw tally, in option insertion order.
type OptionCount struct {
	OptionID int64
	Text     string
	Color    string
	Votes    int64
}

type Repository interface {
	// Create appends exactly one vote row. With enforceSingle the insert is
	// conditional on no existing (survey_id, user_id) row and must be atomic
	// with that check; it returns ErrAlreadyVoted when the guard trips.
	Create(ctx context.Context, v *Vote, enforceSingle bool) error
	Exists(ctx context.Context, surveyID, userID int64) (bool, error)
	SurveyMeta(ctx context.Context, surveyID int64) (*SurveyMeta, error)
	OptionBelongs(ctx context.Context, optionID, surveyID int64) (bool, error)
	CountBySurvey(ctx context.Context, surveyID int64) ([]OptionCount, error)
	Count(ctx context.Context) (int64, error)
}
