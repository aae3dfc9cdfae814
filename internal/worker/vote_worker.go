package worker

import (
	"context"

	"go.uber.org/zap"

	"survey-system/internal/metrics"
)

// VoteEvent is emitted by the vote handler after a vote row is committed.
type VoteEvent struct {
	SurveyID int64
	OptionID int64
	UserID   int64
}

// VoteWorker drains vote events off the handler channel, keeping the counter
// and the log out of the request path.
type VoteWorker struct {
	ch  <-chan VoteEvent
	log *zap.Logger
}

func NewVoteWorker(ch <-chan VoteEvent, log *zap.Logger) *VoteWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &VoteWorker{ch: ch, log: log}
}

func (w *VoteWorker) Run(ctx context.Context) {
	w.log.Info("vote worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("vote worker stopped")
			return
		case ev := <-w.ch:
			metrics.IncVoteRecorded()
			w.log.Debug("vote recorded",
				zap.Int64("survey_id", ev.SurveyID),
				zap.Int64("option_id", ev.OptionID),
				zap.Int64("user_id", ev.UserID),
			)
		}
	}
}
