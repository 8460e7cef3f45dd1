package dbmodels

import (
	"testing"

	"campus-workflow-backend/models"

	"github.com/stretchr/testify/require"
)

func TestNewApprovalChain(t *testing.T) {
	steps := NewApprovalChain("rec-1")
	require.Len(t, steps, len(models.ApprovalHierarchy))

	// the owner's own step is granted at creation
	require.Equal(t, models.RoleClubSecretary, steps[0].Role)
	require.Equal(t, models.ApprovalStatusApproved, steps[0].Status)

	for k := 1; k < len(steps); k++ {
		require.Equal(t, models.ApprovalHierarchy[k], steps[k].Role)
		require.Equal(t, k, steps[k].RoleIndex)
		require.Equal(t, models.ApprovalStatusPending, steps[k].Status)
		require.Equal(t, "rec-1", steps[k].ProposalID)
	}
}

func TestProposalChainState(t *testing.T) {
	newRec := func() EventProposal {
		return EventProposal{Approvals: NewApprovalChain("rec-1")}
	}

	t.Run(`step lookup`, func(t *testing.T) {
		rec := newRec()
		step, err := rec.StepFor(models.RoleTreasurer)
		require.Nil(t, err)
		require.Equal(t, models.RoleTreasurer, step.Role)

		_, err = rec.StepFor(models.RoleWarden)
		require.ErrorIs(t, err, models.ErrInvalidRole)
	})

	t.Run(`predecessors gate`, func(t *testing.T) {
		rec := newRec()
		require.True(t, rec.PredecessorsApproved(models.RoleGeneralSecretary))
		require.False(t, rec.PredecessorsApproved(models.RoleTreasurer))

		rec.Approvals[1].Status = models.ApprovalStatusApproved
		require.True(t, rec.PredecessorsApproved(models.RoleTreasurer))
		require.False(t, rec.PredecessorsApproved(models.RoleDean))

		require.False(t, rec.PredecessorsApproved(models.RoleARSW))
	})

	t.Run(`all approved`, func(t *testing.T) {
		rec := newRec()
		require.False(t, rec.AllApproved())
		for k := range rec.Approvals {
			rec.Approvals[k].Status = models.ApprovalStatusApproved
		}
		require.True(t, rec.AllApproved())

		short := EventProposal{Approvals: rec.Approvals[:3]}
		require.False(t, short.AllApproved())
	})

	t.Run(`rejection halts the chain`, func(t *testing.T) {
		rec := newRec()
		require.False(t, rec.IsRejected())
		rec.Approvals[3].Status = models.ApprovalStatusRejected
		require.True(t, rec.IsRejected())
	})

	t.Run(`query lookup`, func(t *testing.T) {
		rec := newRec()
		rec.Queries = []EventQuery{{BaseModel: BaseModel{ID: "q-1"}, AskerRole: models.RoleTreasurer}}
		query, err := rec.QueryByID("q-1")
		require.Nil(t, err)
		require.Equal(t, models.RoleTreasurer, query.AskerRole)

		_, err = rec.QueryByID("q-2")
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}
