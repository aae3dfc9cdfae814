package survey

import (
	"context"
	"errors"

	"survey-system/internal/access"
)

var (
	ErrNotFound      = errors.New("survey not found")
	ErrForbidden     = errors.New("caller may not modify this survey")
	ErrTitleRequired = errors.New("title required")
	ErrTooFewOptions = errors.New("survey must have at least 2 options")
)

// MinOptions is the smallest option set a survey can be created with. The
// check runs once at creation; options cannot be removed afterwards.
const MinOptions = 2

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists the survey and all its options as one unit. New surveys
// start active.
func (s *Service) Create(ctx context.Context, owner access.Caller, in CreateInput) (*Survey, []Option, error) {
	if in.Title == "" {
		return nil, nil, ErrTitleRequired
	}
	if len(in.Options) < MinOptions {
		return nil, nil, ErrTooFewOptions
	}

	sv := &Survey{
		OwnerID:     owner.ID,
		Title:       in.Title,
		Description: in.Description,
		IsActive:    true,
	}
	opts := make([]Option, 0, len(in.Options))
	for _, o := range in.Options {
		opts = append(opts, Option{Text: o.Text, Color: o.Color})
	}

	if _, err := s.repo.Create(ctx, sv, opts); err != nil {
		return nil, nil, err
	}

	return sv, opts, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Survey, []Option, error) {
	return s.repo.GetByID(ctx, id)
}

// Update edits title, description or the active flag. Owner-exclusive:
// admins get no override here, unlike Delete.
func (s *Service) Update(ctx context.Context, caller access.Caller, id int64, in UpdateInput) (*Survey, error) {
	sv, _, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(caller, sv.OwnerID) {
		return nil, ErrForbidden
	}

	if err := s.repo.Update(ctx, id, in); err != nil {
		return nil, err
	}

	updated, _, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the survey together with its options and votes.
func (s *Service) Delete(ctx context.Context, caller access.Caller, id int64) error {
	sv, _, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanMutate(caller, sv.OwnerID) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, caller access.Caller, scope Scope) ([]Survey, error) {
	if scope == ScopeAdminAll && !access.IsAdmin(caller) {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, caller.ID, scope)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
