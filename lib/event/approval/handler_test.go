package approvalhandler

import (
	"testing"
	"time"

	eventstore "campus-workflow-backend/lib/event/store"
	"campus-workflow-backend/lib/notify"
	usersstore "campus-workflow-backend/lib/users/store"
	"campus-workflow-backend/models"
	dbmodels "campus-workflow-backend/models/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

type sentMsg struct {
	To      string
	Subject string
}

type fakeNotifier struct {
	sent *[]sentMsg
}

func (f fakeNotifier) Send(to, subject, body string) {
	*f.sent = append(*f.sent, sentMsg{To: to, Subject: subject})
}

type fakeUsersStore struct{}

func (f fakeUsersStore) GetByID(id string) (*dbmodels.User, error) {
	return &dbmodels.User{BaseModel: dbmodels.BaseModel{ID: id}, Email: id + "@test"}, nil
}

func (f fakeUsersStore) GetByRole(role models.Role, category models.EventCategory) (*dbmodels.User, error) {
	return &dbmodels.User{Role: role, Email: string(role) + "@test"}, nil
}

func (f fakeUsersStore) Create(rec dbmodels.User) (string, error) {
	return rec.ID, nil
}

type fakeStore struct {
	rec *dbmodels.EventProposal
}

func (f *fakeStore) Create(rec dbmodels.EventProposal) (string, error) { return rec.ID, nil }

func (f *fakeStore) GetByID(id string) (*dbmodels.EventProposal, error) {
	if f.rec == nil || f.rec.ID != id {
		return nil, nil
	}
	return f.rec, nil
}

func (f *fakeStore) Update(id string, updMap map[string]interface{}) error { return nil }

func (f *fakeStore) ListByOwner(ownerID string) ([]dbmodels.EventProposal, error) { return nil, nil }

func (f *fakeStore) List(filter dbmodels.ProposalFilter) ([]dbmodels.EventProposal, error) {
	return nil, nil
}

func (f *fakeStore) ListOpenPendingSince(before time.Time) ([]dbmodels.EventProposal, error) {
	return nil, nil
}

func (f *fakeStore) SemesterOptions() ([]dbmodels.SemesterOption, error) { return nil, nil }

func (f *fakeStore) CreateSteps(steps []dbmodels.ApprovalStep) error {
	f.rec.Approvals = steps
	return nil
}

func (f *fakeStore) UpdateStep(stepID string, updMap map[string]interface{}) error {
	for k := range f.rec.Approvals {
		if f.rec.Approvals[k].ID != stepID {
			continue
		}
		step := &f.rec.Approvals[k]
		if v, ok := updMap["status"]; ok {
			step.Status = v.(models.ApprovalStatus)
		}
		if v, ok := updMap["comment"]; ok {
			step.Comment = v.(string)
		}
		if v, ok := updMap["decided_at"]; ok {
			at := v.(time.Time)
			step.DecidedAt = &at
		}
		return nil
	}
	return models.ErrNotFound
}

func (f *fakeStore) CreateQuery(rec dbmodels.EventQuery) (string, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = testNow
	f.rec.Queries = append(f.rec.Queries, rec)
	return rec.ID, nil
}

func (f *fakeStore) UpdateQuery(queryID string, updMap map[string]interface{}) error {
	for k := range f.rec.Queries {
		if f.rec.Queries[k].ID != queryID {
			continue
		}
		query := &f.rec.Queries[k]
		if v, ok := updMap["status"]; ok {
			query.Status = v.(models.QueryStatus)
		}
		if v, ok := updMap["response"]; ok {
			query.Response = v.(string)
		}
		if v, ok := updMap["answered_at"]; ok {
			at := v.(time.Time)
			query.AnsweredAt = &at
		}
		return nil
	}
	return models.ErrNotFound
}

func (f *fakeStore) CreateEditRecord(rec dbmodels.EditRecord) (string, error) { return rec.ID, nil }

func (f *fakeStore) ListEditHistory(proposalID string) ([]dbmodels.EditRecord, error) {
	return nil, nil
}

var (
	_ eventstore.Provider = (*fakeStore)(nil)
	_ usersstore.Provider = fakeUsersStore{}
)

func newTestRec() *dbmodels.EventProposal {
	steps := dbmodels.NewApprovalChain("rec-1")
	for k := range steps {
		steps[k].ID = uuid.NewString()
	}
	return &dbmodels.EventProposal{
		BaseModel:      dbmodels.BaseModel{ID: "rec-1"},
		OwnerID:        "owner-1",
		EventName:      "Tech fest",
		Category:       models.EventCategoryTechnical,
		OrganizerEmail: "organizer@test",
		Status:         models.ProposalStatusOpen,
		Approvals:      steps,
	}
}

func newTestHandler(rec *dbmodels.EventProposal) (impl, *fakeStore, *[]sentMsg) {
	sent := &[]sentMsg{}
	notify.Instance = fakeNotifier{sent: sent}
	store := &fakeStore{rec: rec}
	return impl{
		store:      store,
		usersStore: fakeUsersStore{},
		now:        func() time.Time { return testNow },
	}, store, sent
}

func approveThrough(rec *dbmodels.EventProposal, role models.Role) {
	idx, _ := role.HierarchyIndex()
	for k := range rec.Approvals {
		if rec.Approvals[k].RoleIndex <= idx {
			rec.Approvals[k].Status = models.ApprovalStatusApproved
		}
	}
}

func TestAdvance(t *testing.T) {
	t.Run(`in-order approval`, func(t *testing.T) {
		rec := newTestRec()
		handler, _, _ := newTestHandler(rec)

		err := handler.Advance("rec-1", models.RoleGeneralSecretary, models.DecisionApproved, "ok")
		require.Nil(t, err)

		step, err := rec.StepFor(models.RoleGeneralSecretary)
		require.Nil(t, err)
		require.Equal(t, models.ApprovalStatusApproved, step.Status)
		require.Equal(t, "ok", step.Comment)
		require.NotNil(t, step.DecidedAt)
		require.Equal(t, testNow, *step.DecidedAt)
	})

	t.Run(`out-of-order decision is blocked`, func(t *testing.T) {
		rec := newTestRec()
		handler, _, _ := newTestHandler(rec)

		err := handler.Advance("rec-1", models.RoleTreasurer, models.DecisionApproved, "")
		require.ErrorIs(t, err, models.ErrInvalidState)

		step, _ := rec.StepFor(models.RoleTreasurer)
		require.Equal(t, models.ApprovalStatusPending, step.Status)
	})

	t.Run(`decided step cannot be decided again`, func(t *testing.T) {
		rec := newTestRec()
		handler, _, _ := newTestHandler(rec)

		require.Nil(t, handler.Advance("rec-1", models.RoleGeneralSecretary, models.DecisionApproved, ""))
		err := handler.Advance("rec-1", models.RoleGeneralSecretary, models.DecisionApproved, "")
		require.ErrorIs(t, err, models.ErrInvalidState)
	})

	t.Run(`rejection halts the chain`, func(t *testing.T) {
		rec := newTestRec()
		handler, _, sent := newTestHandler(rec)

		require.Nil(t, handler.Advance("rec-1", models.RoleGeneralSecretary, models.DecisionRejected, "over budget"))
		require.True(t, rec.IsRejected())
		require.Len(t, *sent, 1)
		require.Equal(t, "organizer@test", (*sent)[0].To)

		err := handler.Advance("rec-1", models.RoleTreasurer, models.DecisionApproved, "")
		require.ErrorIs(t, err, models.ErrInvalidState)
	})

	t.Run(`approval notifies the next role`, func(t *testing.T) {
		rec := newTestRec()
		handler, _, sent := newTestHandler(rec)

		require.Nil(t, handler.Advance("rec-1", models.RoleGeneralSecretary, models.DecisionApproved, ""))
		require.Len(t, *sent, 1)
		require.Equal(t, string(models.RoleTreasurer)+"@test", (*sent)[0].To)
	})

	t.Run(`final approval notifies the organizer`, func(t *testing.T) {
		rec := newTestRec()
		approveThrough(rec, models.RoleAssociateDean)
		handler, _, sent := newTestHandler(rec)

		require.Nil(t, handler.Advance("rec-1", models.RoleDean, models.DecisionApproved, ""))
		require.True(t, rec.AllApproved())
		require.Len(t, *sent, 1)
		require.Equal(t, "organizer@test", (*sent)[0].To)
	})

	t.Run(`unknown proposal`, func(t *testing.T) {
		handler, _, _ := newTestHandler(newTestRec())
		err := handler.Advance("rec-404", models.RoleGeneralSecretary, models.DecisionApproved, "")
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestQueryRoundTrip(t *testing.T) {
	t.Run(`raise and answer re-opens the step`, func(t *testing.T) {
		rec := newTestRec()
		handler, _, sent := newTestHandler(rec)

		view, err := handler.RaiseQuery("rec-1", models.RoleGeneralSecretary, "what is the expected footfall?")
		require.Nil(t, err)
		require.Equal(t, models.QueryStatusPending, view.Status)
		require.False(t, view.IsPostApproval)

		step, _ := rec.StepFor(models.RoleGeneralSecretary)
		require.Equal(t, models.ApprovalStatusQuery, step.Status)
		require.Contains(t, step.Comment, "what is the expected footfall?")
		require.Len(t, *sent, 1)
		require.Equal(t, "organizer@test", (*sent)[0].To)

		// a queried step cannot be decided until the query is answered
		err = handler.Advance("rec-1", models.RoleGeneralSecretary, models.DecisionApproved, "")
		require.ErrorIs(t, err, models.ErrInvalidState)

		err = handler.ReplyToQuery("rec-1", view.ID, "owner-1", models.RoleClubSecretary, "around 500")
		require.Nil(t, err)

		query, err := rec.QueryByID(view.ID)
		require.Nil(t, err)
		require.Equal(t, models.QueryStatusAnswered, query.Status)
		require.Equal(t, "around 500", query.Response)
		require.NotNil(t, query.AnsweredAt)

		step, _ = rec.StepFor(models.RoleGeneralSecretary)
		require.Equal(t, models.ApprovalStatusPending, step.Status)
		require.Equal(t, "", step.Comment)

		// with the step back to pending the role can decide
		require.Nil(t, handler.Advance("rec-1", models.RoleGeneralSecretary, models.DecisionApproved, ""))
	})

	t.Run(`owner cannot query its own proposal`, func(t *testing.T) {
		handler, _, _ := newTestHandler(newTestRec())
		_, err := handler.RaiseQuery("rec-1", models.RoleClubSecretary, "?")
		require.ErrorIs(t, err, models.ErrInvalidRole)
	})

	t.Run(`only the owner may answer`, func(t *testing.T) {
		rec := newTestRec()
		handler, _, _ := newTestHandler(rec)
		view, err := handler.RaiseQuery("rec-1", models.RoleGeneralSecretary, "?")
		require.Nil(t, err)

		err = handler.ReplyToQuery("rec-1", view.ID, "owner-1", models.RoleTreasurer, "answer")
		require.ErrorIs(t, err, models.ErrInvalidRole)

		err = handler.ReplyToQuery("rec-1", view.ID, "someone-else", models.RoleClubSecretary, "answer")
		require.ErrorIs(t, err, models.ErrInvalidRole)
	})

	t.Run(`answered query cannot be answered again`, func(t *testing.T) {
		rec := newTestRec()
		handler, _, _ := newTestHandler(rec)
		view, err := handler.RaiseQuery("rec-1", models.RoleGeneralSecretary, "?")
		require.Nil(t, err)

		require.Nil(t, handler.ReplyToQuery("rec-1", view.ID, "owner-1", models.RoleClubSecretary, "answer"))
		err = handler.ReplyToQuery("rec-1", view.ID, "owner-1", models.RoleClubSecretary, "again")
		require.ErrorIs(t, err, models.ErrInvalidState)
	})
}

func TestPostApprovalQuery(t *testing.T) {
	t.Run(`oversight query on approved proposal`, func(t *testing.T) {
		rec := newTestRec()
		approveThrough(rec, models.RoleDean)
		handler, _, _ := newTestHandler(rec)

		view, err := handler.RaisePostApprovalQuery("rec-1", models.RoleARSW, "submit the utilisation report")
		require.Nil(t, err)
		require.True(t, view.IsPostApproval)
		require.Equal(t, models.QueryStatusPending, view.Status)

		// answering a post-approval query never touches the approval chain
		err = handler.ReplyToQuery("rec-1", view.ID, "owner-1", models.RoleClubSecretary, "attached")
		require.Nil(t, err)
		require.True(t, rec.AllApproved())
	})

	t.Run(`requires an oversight role`, func(t *testing.T) {
		rec := newTestRec()
		approveThrough(rec, models.RoleDean)
		handler, _, _ := newTestHandler(rec)

		_, err := handler.RaisePostApprovalQuery("rec-1", models.RoleTreasurer, "?")
		require.ErrorIs(t, err, models.ErrInvalidRole)
	})

	t.Run(`requires a fully approved chain`, func(t *testing.T) {
		rec := newTestRec()
		handler, _, _ := newTestHandler(rec)

		_, err := handler.RaisePostApprovalQuery("rec-1", models.RoleDean, "?")
		require.ErrorIs(t, err, models.ErrInvalidState)
	})
}
