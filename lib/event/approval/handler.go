package approvalhandler

import (
	"fmt"
	"time"

	"campus-workflow-backend/db"
	eventstore "campus-workflow-backend/lib/event/store"
	"campus-workflow-backend/lib/notify"
	usersstore "campus-workflow-backend/lib/users/store"
	"campus-workflow-backend/models"
	eventapimodels "campus-workflow-backend/models/api/event"
	dbmodels "campus-workflow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Advance(proposalID string, role models.Role, decision models.ApprovalDecision, comment string) error
	RaiseQuery(proposalID string, role models.Role, text string) (view eventapimodels.QueryView, err error)
	ReplyToQuery(proposalID, queryID, responderUserID string, responderRole models.Role, response string) error
	RaisePostApprovalQuery(proposalID string, callerRole models.Role, text string) (view eventapimodels.QueryView, err error)
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

func (i impl) getLogger(proposalID string) *log.Entry {
	return log.WithField("proposal_id", proposalID)
}

// Advance records one role's decision. The step must currently be pending
// and every earlier role must already have approved; a rejected chain stays
// rejected for good.
func (i impl) Advance(proposalID string, role models.Role, decision models.ApprovalDecision, comment string) error {
	logger := i.getLogger(proposalID).
		WithField("role", role).
		WithField("decision", decision)
	rec, err := i.getRec(proposalID)
	if err != nil {
		return err
	}
	if rec.IsRejected() {
		return errors.Wrap(models.ErrInvalidState, "the approval chain is halted by a rejection")
	}
	step, err := rec.StepFor(role)
	if err != nil {
		return errors.Wrapf(err, "role %v has no step in the approval chain", role)
	}
	if step.Status != models.ApprovalStatusPending {
		return errors.Wrapf(models.ErrInvalidState, "the %v step is %v, not pending", role.ToHuman(), step.Status.ToHuman())
	}
	if !rec.PredecessorsApproved(role) {
		return errors.Wrap(models.ErrInvalidState, "earlier roles in the chain have not approved yet")
	}

	decidedAt := i.now()
	err = i.store.UpdateStep(step.ID, map[string]interface{}{
		"status":     models.ApprovalStatus(decision),
		"comment":    comment,
		"decided_at": decidedAt,
	})
	if err != nil {
		logger.WithError(err).Error("approval step update failed")
		return err
	}
	logger.Info("approval decision recorded")

	switch decision {
	case models.DecisionRejected:
		subject, body := notify.RejectedMsg(rec.EventName, role, comment)
		notify.Instance.Send(rec.OrganizerEmail, subject, body)
	case models.DecisionApproved:
		if role == models.LastHierarchyRole() {
			subject, body := notify.FullyApprovedMsg(rec.EventName)
			notify.Instance.Send(rec.OrganizerEmail, subject, body)
			break
		}
		idx, _ := role.HierarchyIndex()
		nextRole := models.ApprovalHierarchy[idx+1]
		i.notifyRoleHolder(*rec, nextRole)
	}
	return nil
}

// RaiseQuery pauses the caller's own pending decision with a question to the
// proposal owner.
func (i impl) RaiseQuery(proposalID string, role models.Role, text string) (eventapimodels.QueryView, error) {
	logger := i.getLogger(proposalID).WithField("role", role)
	rec, err := i.getRec(proposalID)
	if err != nil {
		return eventapimodels.QueryView{}, err
	}
	if role.IsOwnerRole() {
		return eventapimodels.QueryView{}, errors.Wrap(models.ErrInvalidRole, "the owner role cannot query its own proposal")
	}
	step, err := rec.StepFor(role)
	if err != nil {
		return eventapimodels.QueryView{}, err
	}
	if step.Status != models.ApprovalStatusPending {
		return eventapimodels.QueryView{}, errors.Wrapf(models.ErrInvalidState, "the %v step is %v, not pending", role.ToHuman(), step.Status.ToHuman())
	}

	err = i.store.UpdateStep(step.ID, map[string]interface{}{
		"status":  models.ApprovalStatusQuery,
		"comment": fmt.Sprintf("Query raised: %s", text),
	})
	if err != nil {
		logger.WithError(err).Error("approval step update failed")
		return eventapimodels.QueryView{}, err
	}
	query := dbmodels.EventQuery{
		ProposalID:     proposalID,
		AskerRole:      role,
		QueryText:      text,
		ResponderEmail: rec.OrganizerEmail,
		Status:         models.QueryStatusPending,
	}
	queryID, err := i.store.CreateQuery(query)
	if err != nil {
		logger.WithError(err).Error("query creation failed")
		return eventapimodels.QueryView{}, err
	}
	query.ID = queryID
	query.CreatedAt = i.now()
	logger.WithField("query_id", queryID).Info("query raised")

	subject, body := notify.QueryRaisedMsg(rec.EventName, role, text)
	notify.Instance.Send(rec.OrganizerEmail, subject, body)
	return eventapimodels.QueryConvert(query), nil
}

// ReplyToQuery answers a pending query. Only the proposal owner may answer;
// answering a pre-approval query re-opens the asker's decision.
func (i impl) ReplyToQuery(proposalID, queryID, responderUserID string, responderRole models.Role, response string) error {
	logger := i.getLogger(proposalID).WithField("query_id", queryID)
	rec, err := i.getRec(proposalID)
	if err != nil {
		return err
	}
	if !responderRole.IsOwnerRole() {
		return errors.Wrap(models.ErrInvalidRole, "only the club secretary may answer queries")
	}
	if rec.OwnerID != responderUserID {
		return errors.Wrap(models.ErrInvalidRole, "only the proposal owner may answer its queries")
	}
	query, err := rec.QueryByID(queryID)
	if err != nil {
		return errors.Wrap(err, "query not found")
	}
	if query.Status != models.QueryStatusPending {
		return errors.Wrap(models.ErrInvalidState, "the query has already been answered")
	}

	answeredAt := i.now()
	err = i.store.UpdateQuery(queryID, map[string]interface{}{
		"status":      models.QueryStatusAnswered,
		"response":    response,
		"answered_at": answeredAt,
	})
	if err != nil {
		logger.WithError(err).Error("query update failed")
		return err
	}
	if !query.IsPostApproval {
		step, err := rec.StepFor(query.AskerRole)
		if err != nil {
			return err
		}
		err = i.store.UpdateStep(step.ID, map[string]interface{}{
			"status":  models.ApprovalStatusPending,
			"comment": "",
		})
		if err != nil {
			logger.WithError(err).Error("approval step reset failed")
			return err
		}
	}
	logger.Info("query answered")

	asker, err := i.usersStore.GetByRole(query.AskerRole, rec.Category)
	if err != nil || asker == nil {
		logger.WithError(err).WithField("role", query.AskerRole).Warn("asker lookup failed, notification skipped")
		return nil
	}
	subject, body := notify.QueryAnsweredMsg(rec.EventName, response)
	notify.Instance.Send(asker.Email, subject, body)
	return nil
}

// RaisePostApprovalQuery appends an oversight question to a fully-approved
// proposal. It never touches approval steps and has no resolve operation;
// these queries remain a notification trail.
func (i impl) RaisePostApprovalQuery(proposalID string, callerRole models.Role, text string) (eventapimodels.QueryView, error) {
	logger := i.getLogger(proposalID).WithField("role", callerRole)
	rec, err := i.getRec(proposalID)
	if err != nil {
		return eventapimodels.QueryView{}, err
	}
	if !callerRole.IsOversight() {
		return eventapimodels.QueryView{}, errors.Wrap(models.ErrInvalidRole, "only oversight roles may raise post-approval queries")
	}
	if !rec.AllApproved() {
		return eventapimodels.QueryView{}, errors.Wrap(models.ErrInvalidState, "the proposal is not fully approved yet")
	}

	query := dbmodels.EventQuery{
		ProposalID:     proposalID,
		AskerRole:      callerRole,
		QueryText:      text,
		ResponderEmail: rec.OrganizerEmail,
		Status:         models.QueryStatusPending,
		IsPostApproval: true,
	}
	queryID, err := i.store.CreateQuery(query)
	if err != nil {
		logger.WithError(err).Error("post-approval query creation failed")
		return eventapimodels.QueryView{}, err
	}
	query.ID = queryID
	query.CreatedAt = i.now()
	logger.WithField("query_id", queryID).Info("post-approval query raised")

	subject, body := notify.PostApprovalQueryMsg(rec.EventName, callerRole, text)
	notify.Instance.Send(rec.OrganizerEmail, subject, body)
	return eventapimodels.QueryConvert(query), nil
}

func (i impl) getRec(id string) (*dbmodels.EventProposal, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		i.getLogger(id).WithError(err).Error("proposal lookup failed")
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "event proposal not found")
	}
	return rec, nil
}

func (i impl) notifyRoleHolder(rec dbmodels.EventProposal, role models.Role) {
	holder, err := i.usersStore.GetByRole(role, rec.Category)
	if err != nil || holder == nil {
		i.getLogger(rec.ID).
			WithError(err).
			WithField("role", role).
			Warn("role holder lookup failed, notification skipped")
		return
	}
	subject, body := notify.NeedsReviewMsg(rec.EventName, role)
	notify.Instance.Send(holder.Email, subject, body)
}
