package lifecyclehandler

import (
	"time"

	"campus-workflow-backend/db"
	eventstore "campus-workflow-backend/lib/event/store"
	"campus-workflow-backend/lib/notify"
	usersstore "campus-workflow-backend/lib/users/store"
	"campus-workflow-backend/models"
	dbmodels "campus-workflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CloseWindow is the slack before the event end date in which closing is
// already permitted, so closure can be scheduled ahead of the literal end.
const CloseWindow = 100 * 24 * time.Hour

type Provider interface {
	Close(proposalID, callerUserID string, closerDisplayName string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:      eventstore.NewInstance(db.DB),
		usersStore: usersstore.NewInstance(db.DB),
		now:        time.Now,
	}
}

type impl struct {
	store      eventstore.Provider
	usersStore usersstore.Provider
	now        func() time.Time
}

// CanClose reports whether the caller may close the proposal right now.
// Requires an oversight role, an open and fully-approved chain, and the
// current time at or past endDate minus the close window.
func CanClose(rec *dbmodels.EventProposal, callerRole models.Role, now time.Time) error {
	if !callerRole.IsOversight() {
		return errors.Wrap(models.ErrInvalidRole, "only oversight roles may close events")
	}
	if rec.Status != models.ProposalStatusOpen {
		return errors.Wrap(models.ErrInvalidState, "the event is already closed")
	}
	if !rec.AllApproved() {
		return errors.Wrap(models.ErrInvalidState, "the event is not fully approved yet")
	}
	if now.Before(rec.EndDate.Add(-CloseWindow)) {
		return errors.Wrap(models.ErrInvalidState, "the closing window has not opened yet")
	}
	return nil
}

// Close is terminal: there is no reopen operation.
func (i impl) Close(proposalID, callerUserID string, closerDisplayName string) error {
	logger := log.
		WithField("proposal_id", proposalID).
		WithField("caller_id", callerUserID)
	rec, err := i.store.GetByID(proposalID)
	if err != nil {
		logger.WithError(err).Error("proposal lookup failed")
		return err
	}
	if rec == nil {
		return errors.Wrap(models.ErrNotFound, "event proposal not found")
	}
	caller, err := i.usersStore.GetByID(callerUserID)
	if err != nil {
		logger.WithError(err).Error("caller lookup failed")
		return err
	}
	if caller == nil {
		return errors.Wrap(models.ErrNotFound, "caller not found")
	}
	if err = CanClose(rec, caller.Role, i.now()); err != nil {
		return err
	}

	closedBy := closerDisplayName
	if closedBy == "" {
		closedBy = caller.GetFullName()
	}
	if closedBy == "" {
		closedBy = "Unknown"
	}
	closedAt := i.now()
	err = i.store.Update(proposalID, map[string]interface{}{
		"status":    models.ProposalStatusClosed,
		"closed_by": closedBy,
		"closed_at": closedAt,
	})
	if err != nil {
		logger.WithError(err).Error("event closing failed")
		return err
	}
	logger.WithField("closed_by", closedBy).Info("event closed")

	subject, body := notify.ClosedMsg(rec.EventName, closedBy)
	notify.Instance.Send(rec.OrganizerEmail, subject, body)
	return nil
}
