package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		page, perPage                    int
		wantPage, wantPer, limit, offset int
	}{
		{page: 0, perPage: 0, wantPage: 1, wantPer: 10, limit: 10, offset: 0},
		{page: 3, perPage: 20, wantPage: 3, wantPer: 20, limit: 20, offset: 40},
		{page: -2, perPage: 500, wantPage: 1, wantPer: 100, limit: 100, offset: 0},
	}
	for _, tt := range tests {
		p, pp, limit, offset := paginate(tt.page, tt.perPage)
		require.Equal(t, []int{tt.wantPage, tt.wantPer, tt.limit, tt.offset}, []int{p, pp, limit, offset})
	}

	require.Equal(t, 3, newPagination(1, 10, 21).TotalPages)
	require.Equal(t, 0, newPagination(1, 10, 0).TotalPages)
}
