package apimodels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPage(t *testing.T) {
	t.Run(`defaults`, func(t *testing.T) {
		page, limit := Pagination{}.GetPage()
		require.Equal(t, 1, page)
		require.Equal(t, 10, limit)
	})

	t.Run(`limit cap`, func(t *testing.T) {
		page, limit := Pagination{Page: 2, Limit: 500}.GetPage()
		require.Equal(t, 2, page)
		require.Equal(t, 100, limit)
	})
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(2, 10, 25)
	require.Equal(t, PageInfo{CurrentPage: 2, TotalPages: 3, TotalCount: 25, HasNext: true, HasPrev: true}, info)

	info = NewPageInfo(1, 10, 0)
	require.Equal(t, PageInfo{CurrentPage: 1, TotalPages: 1, TotalCount: 0, HasNext: false, HasPrev: false}, info)
}
