package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDMKeyFor(t *testing.T) {
	require.Equal(t, "3:10", DMKeyFor(10, 3))
	require.Equal(t, DMKeyFor(3, 10), DMKeyFor(10, 3))
}

func TestRoomKindValid(t *testing.T) {
	for _, k := range []RoomKind{RoomKindPreJoin, RoomKindPostJoin, RoomKindDM} {
		require.True(t, k.Valid(), k)
	}
	require.False(t, RoomKind("LOBBY").Valid())
	require.False(t, RoomKind("").Valid())
}
