package lifecyclehandler

import (
	"testing"
	"time"

	eventstore "campus-workflow-backend/lib/event/store"
	"campus-workflow-backend/lib/notify"
	"campus-workflow-backend/models"
	dbmodels "campus-workflow-backend/models/db"

	"github.com/stretchr/testify/require"
)

type fakeNotifier struct{}

func (f fakeNotifier) Send(to, subject, body string) {}

type fakeUsersStore struct {
	caller *dbmodels.User
}

func (f fakeUsersStore) GetByID(id string) (*dbmodels.User, error) {
	if f.caller != nil && f.caller.ID == id {
		return f.caller, nil
	}
	return nil, nil
}

func (f fakeUsersStore) GetByRole(role models.Role, category models.EventCategory) (*dbmodels.User, error) {
	return nil, nil
}

func (f fakeUsersStore) Create(rec dbmodels.User) (string, error) { return rec.ID, nil }

type fakeStore struct {
	rec     *dbmodels.EventProposal
	updates map[string]interface{}
}

func (f *fakeStore) Create(rec dbmodels.EventProposal) (string, error) { return rec.ID, nil }

func (f *fakeStore) GetByID(id string) (*dbmodels.EventProposal, error) {
	if f.rec == nil || f.rec.ID != id {
		return nil, nil
	}
	return f.rec, nil
}

func (f *fakeStore) Update(id string, updMap map[string]interface{}) error {
	f.updates = updMap
	return nil
}

func (f *fakeStore) ListByOwner(ownerID string) ([]dbmodels.EventProposal, error) { return nil, nil }

func (f *fakeStore) List(filter dbmodels.ProposalFilter) ([]dbmodels.EventProposal, error) {
	return nil, nil
}

func (f *fakeStore) ListOpenPendingSince(before time.Time) ([]dbmodels.EventProposal, error) {
	return nil, nil
}

func (f *fakeStore) SemesterOptions() ([]dbmodels.SemesterOption, error) { return nil, nil }

func (f *fakeStore) CreateSteps(steps []dbmodels.ApprovalStep) error { return nil }

func (f *fakeStore) UpdateStep(stepID string, updMap map[string]interface{}) error { return nil }

func (f *fakeStore) CreateQuery(rec dbmodels.EventQuery) (string, error) { return rec.ID, nil }

func (f *fakeStore) UpdateQuery(queryID string, updMap map[string]interface{}) error { return nil }

func (f *fakeStore) CreateEditRecord(rec dbmodels.EditRecord) (string, error) { return rec.ID, nil }

func (f *fakeStore) ListEditHistory(proposalID string) ([]dbmodels.EditRecord, error) {
	return nil, nil
}

var _ eventstore.Provider = (*fakeStore)(nil)

var endDate = time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC)

func newApprovedRec() *dbmodels.EventProposal {
	steps := dbmodels.NewApprovalChain("rec-1")
	for k := range steps {
		steps[k].Status = models.ApprovalStatusApproved
	}
	return &dbmodels.EventProposal{
		BaseModel:      dbmodels.BaseModel{ID: "rec-1"},
		OwnerID:        "owner-1",
		EventName:      "Tech fest",
		EndDate:        endDate,
		OrganizerEmail: "organizer@test",
		Status:         models.ProposalStatusOpen,
		Approvals:      steps,
	}
}

func TestCanClose(t *testing.T) {
	windowOpens := endDate.Add(-CloseWindow)

	t.Run(`window boundary`, func(t *testing.T) {
		rec := newApprovedRec()
		require.ErrorIs(t, CanClose(rec, models.RoleDean, windowOpens.Add(-time.Second)), models.ErrInvalidState)
		require.Nil(t, CanClose(rec, models.RoleDean, windowOpens))
		require.Nil(t, CanClose(rec, models.RoleDean, endDate.Add(24*time.Hour)))
	})

	t.Run(`oversight roles only`, func(t *testing.T) {
		rec := newApprovedRec()
		require.Nil(t, CanClose(rec, models.RoleARSW, windowOpens))
		require.Nil(t, CanClose(rec, models.RoleAssociateDean, windowOpens))
		require.ErrorIs(t, CanClose(rec, models.RolePresident, windowOpens), models.ErrInvalidRole)
		require.ErrorIs(t, CanClose(rec, models.RoleClubSecretary, windowOpens), models.ErrInvalidRole)
	})

	t.Run(`chain must be fully approved`, func(t *testing.T) {
		rec := newApprovedRec()
		rec.Approvals[4].Status = models.ApprovalStatusPending
		require.ErrorIs(t, CanClose(rec, models.RoleDean, windowOpens), models.ErrInvalidState)
	})

	t.Run(`closing is terminal`, func(t *testing.T) {
		rec := newApprovedRec()
		rec.Status = models.ProposalStatusClosed
		require.ErrorIs(t, CanClose(rec, models.RoleDean, windowOpens), models.ErrInvalidState)
	})
}

func TestClose(t *testing.T) {
	notify.Instance = fakeNotifier{}
	now := endDate.Add(-24 * time.Hour)

	newHandler := func(rec *dbmodels.EventProposal, caller *dbmodels.User) (impl, *fakeStore) {
		store := &fakeStore{rec: rec}
		return impl{
			store:      store,
			usersStore: fakeUsersStore{caller: caller},
			now:        func() time.Time { return now },
		}, store
	}

	t.Run(`records who closed and when`, func(t *testing.T) {
		caller := &dbmodels.User{
			BaseModel: dbmodels.BaseModel{ID: "dean-1"},
			FirstName: "A",
			LastName:  "Dean",
			Role:      models.RoleDean,
		}
		handler, store := newHandler(newApprovedRec(), caller)

		err := handler.Close("rec-1", "dean-1", "")
		require.Nil(t, err)
		require.Equal(t, models.ProposalStatusClosed, store.updates["status"])
		require.Equal(t, caller.GetFullName(), store.updates["closed_by"])
		require.Equal(t, now, store.updates["closed_at"])
	})

	t.Run(`display name overrides the caller name`, func(t *testing.T) {
		caller := &dbmodels.User{BaseModel: dbmodels.BaseModel{ID: "dean-1"}, Role: models.RoleDean}
		handler, store := newHandler(newApprovedRec(), caller)

		err := handler.Close("rec-1", "dean-1", "Dean's office")
		require.Nil(t, err)
		require.Equal(t, "Dean's office", store.updates["closed_by"])
	})

	t.Run(`unknown caller`, func(t *testing.T) {
		handler, _ := newHandler(newApprovedRec(), nil)
		err := handler.Close("rec-1", "dean-1", "")
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run(`unknown proposal`, func(t *testing.T) {
		handler, _ := newHandler(newApprovedRec(), nil)
		err := handler.Close("rec-404", "dean-1", "")
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}
