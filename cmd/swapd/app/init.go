package app

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"

	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/x/feesplit"
	"github.com/iov-one/tokenswap/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Mints funded for the development account created by GenInitOptions.
var devMints = []string{"XTK", "YTK"}

const (
	devBalance        = 1000000
	devReserve        = 1000
	devStorageDeposit = 10
)

// DevAccount returns the token account id GenInitOptions creates for the
// given owner and mint.
func DevAccount(owner weave.Address, mint string) weave.Address {
	return weave.NewAddress(append([]byte(mint+"/"), owner...))
}

// ServiceAccount returns the id of the account collecting the fee split
// fee in the genesis produced by GenInitOptions.
func ServiceAccount(owner weave.Address) weave.Address {
	return DevAccount(owner, "fee/"+devMints[0])
}

// GenInitOptions produces the app_state for a development chain. The owner
// holds one funded account per mint, a storage reserve and the fee split
// service account. Escrow uses its default configuration.
func GenInitOptions(owner weave.Address) (json.RawMessage, error) {
	accounts := []token.GenesisAccount{{
		ID:    ServiceAccount(owner),
		Mint:  devMints[0],
		Owner: owner,
	}}
	for _, mint := range devMints {
		accounts = append(accounts, token.GenesisAccount{
			ID:     DevAccount(owner, mint),
			Mint:   mint,
			Owner:  owner,
			Amount: devBalance,
		})
	}

	state := map[string]interface{}{
		"conf": map[string]interface{}{
			"token": token.Configuration{StorageDeposit: devStorageDeposit},
			"feesplit": feesplit.Configuration{
				ServiceAccount: ServiceAccount(owner),
				Fee:            feesplit.DefaultFee,
			},
		},
		"token": map[string]interface{}{
			"accounts": accounts,
			"reserves": []token.GenesisReserve{{Owner: owner, Amount: devReserve}},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp builds the application storing its data at dbPath.
// An empty path keeps everything in memory.
func GenerateApp(dbPath string, logger log.Logger, debug bool) (abci.Application, error) {
	application, err := Application(Name, Stack(), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}

// GenerateCoinKey returns the address of a new key, along with the hex
// encoded seed it is derived from. The key can be recovered with OwnerFromSeed.
func GenerateCoinKey() (weave.Address, string, error) {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, "", errors.Wrap(err, "read random seed")
	}
	key, err := crypto.DerivePrivKeyEd25519(seed, crypto.DefaultDerivationPath)
	if err != nil {
		return nil, "", err
	}
	return key.PublicKey().Address(), hex.EncodeToString(seed), nil
}

// OwnerFromSeed returns the key derived from a hex encoded seed at the
// default derivation path.
func OwnerFromSeed(hexSeed string) (*crypto.PrivateKey, error) {
	seed, err := hex.DecodeString(hexSeed)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "seed is not hex encoded")
	}
	return crypto.DerivePrivKeyEd25519(seed, crypto.DefaultDerivationPath)
}
