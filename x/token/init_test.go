package token

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/weave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	const genesis = `
{
	"conf": {
		"token": {"storage_deposit": 25}
	},
	"token": {
		"accounts": [
			{"id": "1111111111111111111111111111111111111111", "mint": "XTK", "owner": "2222222222222222222222222222222222222222", "amount": 500}
		],
		"reserves": [
			{"owner": "2222222222222222222222222222222222222222", "amount": 1000}
		]
	}
}`
	var opts weave.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	conf, err := loadConf(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), conf.StorageDeposit)

	id, _ := weave.ParseAddress("1111111111111111111111111111111111111111")
	owner, _ := weave.ParseAddress("2222222222222222222222222222222222222222")
	assert.Equal(t, uint64(500), balance(t, db, id))
	assert.Equal(t, uint64(1000), reserve(t, db, owner))
}

func TestGenesisRequiresConfiguration(t *testing.T) {
	var opts weave.Options
	require.NoError(t, json.Unmarshal([]byte(`{"token": {}}`), &opts))
	err := Initializer{}.FromGenesis(opts, store.MemStore())
	assert.True(t, errors.ErrNotFound.Is(err))
}
