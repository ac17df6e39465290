package escrow

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
	cases := map[string]struct {
		genesis  string
		wantConf Configuration
		wantErr  *errors.Error
	}{
		"default configuration": {
			genesis:  `{}`,
			wantConf: DefaultConfiguration(),
		},
		"custom seeds": {
			genesis: `{"conf": {"escrow": {
				"program_id": "7iDKuYGEDgVKqxAzM3GygLeGKgnJxk3jhVyDmiAhSx8h",
				"authority_seed": "swap-authority",
				"vault_seed": "swap-vault"
			}}}`,
			wantConf: Configuration{
				ProgramID:     "7iDKuYGEDgVKqxAzM3GygLeGKgnJxk3jhVyDmiAhSx8h",
				AuthoritySeed: "swap-authority",
				VaultSeed:     "swap-vault",
			},
		},
		"same seed twice": {
			genesis: `{"conf": {"escrow": {
				"program_id": "7iDKuYGEDgVKqxAzM3GygLeGKgnJxk3jhVyDmiAhSx8h",
				"authority_seed": "escrow",
				"vault_seed": "escrow"
			}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts weave.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := store.MemStore()
			err := Initializer{}.FromGenesis(opts, db)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			conf, err := loadConf(db)
			require.NoError(t, err)
			assert.Equal(t, &tc.wantConf, conf)
		})
	}
}
