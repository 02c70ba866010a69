// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package list

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListFIFO(t *testing.T) {
	require := require.New(t)
	var l List[int]

	_, ok := l.PopFront()
	require.False(ok)

	for i := 0; i < 5; i++ {
		l.PushBack(i)
	}
	require.Equal(5, l.Size())

	var seen []int
	for e := l.First(); e != nil; e = e.Next() {
		seen = append(seen, e.Value())
	}
	require.Equal([]int{0, 1, 2, 3, 4}, seen)

	for i := 0; i < 5; i++ {
		v, ok := l.PopFront()
		require.True(ok)
		require.Equal(i, v)
	}
	require.Zero(l.Size())
	require.Nil(l.First())
}

func TestListRemoveMiddle(t *testing.T) {
	require := require.New(t)
	var l List[string]
	l.PushBack("a")
	b := l.PushBack("b")
	l.PushBack("c")

	require.Equal("b", l.Remove(b))
	// Removing twice is a no-op.
	l.Remove(b)
	require.Equal(2, l.Size())

	v, _ := l.PopFront()
	require.Equal("a", v)
	v, _ = l.PopFront()
	require.Equal("c", v)
}
