package comm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSingleProcessRankAndSize(t *testing.T) {
	var c Communicator = SingleProcess{}

	require.Equal(t, 0, c.Rank())
	require.Equal(t, 1, c.Size())
}

func TestSingleProcessBarrierIsNoop(t *testing.T) {
	c := SingleProcess{}
	c.Barrier() // must not block or panic
}

func TestSingleProcessBcastIsNoop(t *testing.T) {
	c := SingleProcess{}
	data := []byte{1, 2, 3}

	require.NoError(t, c.Bcast(data, 0))
	require.Equal(t, []byte{1, 2, 3}, data)
}
