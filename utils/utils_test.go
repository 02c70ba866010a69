// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToID(t *testing.T) {
	require := require.New(t)
	require.Equal(ToID([]byte("a")), ToID([]byte("a")))
	require.NotEqual(ToID([]byte("a")), ToID([]byte("b")))
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                 string
		total, offset, limit uint64
		start, end           uint64
	}{
		{"all", 5, 0, 0, 0, 5},
		{"window", 10, 2, 3, 2, 5},
		{"tail", 10, 8, 5, 8, 10},
		{"past end", 3, 7, 2, 3, 3},
		{"empty", 0, 0, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Paginate(tt.total, tt.offset, tt.limit)
			require.Equal(t, tt.start, start)
			require.Equal(t, tt.end, end)
		})
	}
}
