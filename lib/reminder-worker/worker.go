package reminderworker

import (
	"context"
	"time"

	"campus-workflow-backend/db"
	eventstore "campus-workflow-backend/lib/event/store"
	"campus-workflow-backend/lib/notify"
	usersstore "campus-workflow-backend/lib/users/store"
	baseworker "campus-workflow-backend/lib/utils/base-worker"
	"campus-workflow-backend/lib/utils/helpers"
	"campus-workflow-backend/models"
	dbmodels "campus-workflow-backend/models/db"
)

// StartWorker periodically reminds the role an open proposal has been
// waiting on for longer than pendingDays.
func StartWorker(ctx context.Context, pendingDays int) {
	i := &impl{
		BaseImpl:    *baseworker.NewInstance("PendingReminderWorker", 30*time.Second, 24*time.Hour),
		store:       eventstore.NewInstance(db.DB),
		usersStore:  usersstore.NewInstance(db.DB),
		pendingDays: pendingDays,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	store       eventstore.Provider
	usersStore  usersstore.Provider
	pendingDays int
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	staleSince := time.Now().Add(-time.Duration(i.pendingDays) * 24 * time.Hour)
	list, err := i.store.ListOpenPendingSince(staleSince)
	if err != nil {
		logger.WithError(err).Error("stale proposal lookup failed")
		return
	}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		role, ok := waitingOn(rec)
		if !ok {
			continue
		}
		holder, err := i.usersStore.GetByRole(role, rec.Category)
		if err != nil || holder == nil {
			logger.
				WithError(err).
				WithField("role", role).
				WithField("proposal_id", rec.ID).
				Warn("role holder lookup failed, reminder skipped")
			continue
		}
		subject, body := notify.PendingReminderMsg(rec.EventName, role, i.pendingDays)
		notify.Instance.Send(holder.Email, subject, body)
	}
}

// waitingOn finds the first non-approved step; rejected or queried chains
// are not reminded, the ball is in the owner's court there.
func waitingOn(rec dbmodels.EventProposal) (models.Role, bool) {
	for _, step := range rec.Approvals {
		switch step.Status {
		case models.ApprovalStatusApproved:
			continue
		case models.ApprovalStatusPending:
			return step.Role, true
		default:
			return "", false
		}
	}
	return "", false
}
