package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassifySemester(t *testing.T) {
	t.Run(`autumn semester`, func(t *testing.T) {
		info := ClassifySemester(time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC))
		require.Equal(t, "Autumn 2024-2025", info.Semester)
		require.Equal(t, "2024-2025", info.AcademicYear)

		info = ClassifySemester(time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC))
		require.Equal(t, "Autumn 2024-2025", info.Semester)
		require.Equal(t, "2024-2025", info.AcademicYear)
	})

	t.Run(`spring semester`, func(t *testing.T) {
		info := ClassifySemester(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC))
		require.Equal(t, "Spring 2023-2024", info.Semester)
		require.Equal(t, "2023-2024", info.AcademicYear)

		info = ClassifySemester(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
		require.Equal(t, "Spring 2024-2025", info.Semester)
		require.Equal(t, "2024-2025", info.AcademicYear)

		info = ClassifySemester(time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC))
		require.Equal(t, "Spring 2024-2025", info.Semester)
		require.Equal(t, "2024-2025", info.AcademicYear)
	})
}

func TestRoleHierarchy(t *testing.T) {
	t.Run(`chain order`, func(t *testing.T) {
		require.Len(t, ApprovalHierarchy, 7)
		require.Equal(t, RoleClubSecretary, ApprovalHierarchy[0])
		require.Equal(t, RoleDean, LastHierarchyRole())

		idx, ok := RoleTreasurer.HierarchyIndex()
		require.True(t, ok)
		require.Equal(t, 2, idx)

		_, ok = RoleARSW.HierarchyIndex()
		require.False(t, ok)
	})

	t.Run(`oversight roles`, func(t *testing.T) {
		require.True(t, RoleAssociateDean.IsOversight())
		require.True(t, RoleDean.IsOversight())
		require.True(t, RoleARSW.IsOversight())
		require.False(t, RolePresident.IsOversight())
		require.False(t, RoleClubSecretary.IsOversight())
	})
}
