package vote

import (
	"context"
	"errors"
	"math"

	"survey-system/internal/access"
)

var (
	ErrSurveyNotFound    = errors.New("survey not found")
	ErrSurveyClosed      = errors.New("survey is no longer active")
	ErrSelfVote          = errors.New("cannot vote on own survey")
	ErrAlreadyVoted      = errors.New("user already voted in this survey")
	ErrOptionNotInSurvey = errors.New("option does not belong to survey")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Cast records one vote if the attempt is admissible. Checks run in order and
// the first failure wins: survey exists, survey active, then for callers
// without the admin bypass no self-vote and no prior vote on this survey,
// then option membership. Admissibility failures are final for the attempt;
// DuplicateVote and SelfVote are permanent for the (survey, caller) pair.
func (s *Service) Cast(ctx context.Context, caller access.Caller, surveyID, optionID int64) (*Vote, error) {
	meta, err := s.repo.SurveyMeta(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if !meta.IsActive {
		return nil, ErrSurveyClosed
	}

	bypass := access.CanBypassVoteRestrictions(caller)
	if !bypass {
		if access.IsOwner(caller, meta.OwnerID) {
			return nil, ErrSelfVote
		}
		voted, err := s.repo.Exists(ctx, surveyID, caller.ID)
		if err != nil {
			return nil, err
		}
		if voted {
			return nil, ErrAlreadyVoted
		}
	}

	ok, err := s.repo.OptionBelongs(ctx, optionID, surveyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOptionNotInSurvey
	}

	v := &Vote{
		SurveyID: surveyID,
		OptionID: optionID,
		UserID:   caller.ID,
	}
	// The repository re-checks uniqueness atomically at the write for
	// non-bypass callers, so two racing attempts cannot both land.
	if err := s.repo.Create(ctx, v, !bypass); err != nil {
		return nil, err
	}
	return v, nil
}

// Result is one option's share of the survey's votes.
type Result struct {
	OptionID   int64  `json:"option_id"`
	Text       string `json:"text"`
	Color      string `json:"color"`
	Votes      int64  `json:"vote_count"`
	Percentage int    `json:"percentage"`
}

// Results tallies the survey's votes per option. Invoked on survey detail
// fetch; list views carry only a raw count.
func (s *Service) Results(ctx context.Context, surveyID int64) ([]Result, int64, error) {
	counts, err := s.repo.CountBySurvey(ctx, surveyID)
	if err != nil {
		return nil, 0, err
	}
	results, total := Aggregate(counts)
	return results, total, nil
}

// Aggregate turns raw per-option tallies into percentage results. Pure: same
// counts in, same results out. Options keep their input (insertion) order.
// Percentages round half up per option independently, so they need not sum
// to exactly 100.
func Aggregate(counts []OptionCount) ([]Result, int64) {
	var total int64
	for _, c := range counts {
		total += c.Votes
	}

	results := make([]Result, 0, len(counts))
	for _, c := range counts {
		pct := 0
		if total > 0 {
			pct = int(math.Floor(float64(c.Votes)*100/float64(total) + 0.5))
		}
		results = append(results, Result{
			OptionID:   c.OptionID,
			Text:       c.Text,
			Color:      c.Color,
			Votes:      c.Votes,
			Percentage: pct,
		})
	}
	return results, total
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
