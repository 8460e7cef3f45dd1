package reminderworker

import (
	"testing"

	"campus-workflow-backend/models"
	dbmodels "campus-workflow-backend/models/db"

	"github.com/stretchr/testify/require"
)

func TestWaitingOn(t *testing.T) {
	newRec := func() dbmodels.EventProposal {
		return dbmodels.EventProposal{Approvals: dbmodels.NewApprovalChain("rec-1")}
	}

	t.Run(`fresh proposal waits on the general secretary`, func(t *testing.T) {
		role, ok := waitingOn(newRec())
		require.True(t, ok)
		require.Equal(t, models.RoleGeneralSecretary, role)
	})

	t.Run(`mid-chain proposal waits on the first pending role`, func(t *testing.T) {
		rec := newRec()
		rec.Approvals[1].Status = models.ApprovalStatusApproved
		rec.Approvals[2].Status = models.ApprovalStatusApproved
		role, ok := waitingOn(rec)
		require.True(t, ok)
		require.Equal(t, models.RolePresident, role)
	})

	t.Run(`rejected chain is not reminded`, func(t *testing.T) {
		rec := newRec()
		rec.Approvals[1].Status = models.ApprovalStatusRejected
		_, ok := waitingOn(rec)
		require.False(t, ok)
	})

	t.Run(`queried chain is not reminded`, func(t *testing.T) {
		rec := newRec()
		rec.Approvals[1].Status = models.ApprovalStatusQuery
		_, ok := waitingOn(rec)
		require.False(t, ok)
	})

	t.Run(`fully approved chain needs no reminder`, func(t *testing.T) {
		rec := newRec()
		for k := range rec.Approvals {
			rec.Approvals[k].Status = models.ApprovalStatusApproved
		}
		_, ok := waitingOn(rec)
		require.False(t, ok)
	})
}
