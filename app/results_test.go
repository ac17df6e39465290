package app

import (
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSetJoin(t *testing.T) {
	models := []weave.Model{
		weave.Pair([]byte("escrow:a"), []byte("one")),
		weave.Pair([]byte("escrow:b"), nil),
	}
	keys, err := ResultsFromKeys(models).Marshal()
	require.NoError(t, err)
	values, err := ResultsFromValues(models).Marshal()
	require.NoError(t, err)

	var k, v ResultSet
	require.NoError(t, k.Unmarshal(keys))
	require.NoError(t, v.Unmarshal(values))
	joined, err := JoinResults(&k, &v)
	require.NoError(t, err)
	require.Len(t, joined, 2)
	assert.Equal(t, []byte("escrow:b"), joined[1].Key)
	assert.Empty(t, joined[1].Value)

	_, err = JoinResults(&k, &ResultSet{})
	assert.True(t, errors.ErrState.Is(err))
}
