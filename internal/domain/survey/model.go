package survey

import (
	"context"
	"time"
)

type Survey struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	OwnerName   string    `json:"owner_name,omitempty"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	VoteCount   int64     `json:"vote_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Option struct {
	ID        int64     `json:"id"`
	SurveyID  int64     `json:"survey_id"`
	Text      string    `json:"text"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

type OptionInput struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

type CreateInput struct {
	Title       string
	Description *string
	Options     []OptionInput
}

type UpdateInput struct {
	Title       *string
	Description *string
	// DescriptionSet marks Description as a deliberate write. With it set a
	// nil Description clears the column; without it a nil Description leaves
	// the column alone. The HTTP layer sets it whenever the key was present
	// in the request body, so "description": null is distinguishable from an
	// absent key.
	DescriptionSet bool
	IsActive       *bool
}

// Scope selects which surveys a listing returns.
type Scope string

const (
	// ScopeActiveForVoter is the default feed: active surveys not owned by
	// the caller.
	ScopeActiveForVoter Scope = "active_for_voter"
	// ScopeMine lists the caller's own surveys regardless of state.
	ScopeMine Scope = "mine"
	// ScopeAdminAll lists every survey except the caller's own, any state.
	// Admin-only.
	ScopeAdminAll Scope = "admin_all"
)

type Repository interface {
	Create(ctx context.Context, s *Survey, options []Option) (int64, error)
	GetByID(ctx context.Context, id int64) (*Survey, []Option, error)
	List(ctx context.Context, callerID int64, scope Scope) ([]Survey, error)
	Update(ctx context.Context, id int64, in UpdateInput) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
