package feesplit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/iov-one/tokenswap/x/token"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSplit(t *testing.T) {
	Convey("Fee is rounded down", t, func() {
		cases := []struct {
			amount, net, fee uint64
		}{
			{1000, 950, 50},
			{120, 114, 6},
			{19, 19, 0},
			{21, 20, 1},
			{1, 1, 0},
			{^uint64(0), ^uint64(0) - ^uint64(0)/20, ^uint64(0) / 20},
		}
		for _, tc := range cases {
			net, fee, err := Split(DefaultFee, tc.amount)
			So(err, ShouldBeNil)
			So(net, ShouldEqual, tc.net)
			So(fee, ShouldEqual, tc.fee)
			So(net+fee, ShouldEqual, tc.amount)
		}
	})

	Convey("Invalid fraction is rejected", t, func() {
		_, _, err := Split(weave.Fraction{Numerator: 1}, 100)
		So(errors.ErrState.Is(err), ShouldBeTrue)
	})
}

func TestTransfer(t *testing.T) {
	Convey("Given a ledger with a service account", t, func() {
		db := store.MemStore()
		So(token.SaveConfiguration(db, token.Configuration{}), ShouldBeNil)

		alice := weavetest.NewCondition()
		bob := weavetest.NewCondition()
		source := weave.NewAddress([]byte("alice XTK"))
		receiver := weave.NewAddress([]byte("bob XTK"))
		service := weave.NewAddress([]byte("service XTK"))
		serviceY := weave.NewAddress([]byte("service YTK"))

		ledger := token.NewController(nil)
		for _, acc := range []struct {
			id    weave.Address
			mint  string
			owner weave.Condition
		}{
			{source, "XTK", alice},
			{receiver, "XTK", bob},
			{service, "XTK", bob},
			{serviceY, "YTK", bob},
		} {
			_, err := ledger.Open(db, acc.id, acc.mint, acc.owner.Address(), acc.owner.Address())
			So(err, ShouldBeNil)
		}
		So(ledger.Mint(db, source, 1000), ShouldBeNil)
		So(SaveConfiguration(db, Configuration{ServiceAccount: service, Fee: DefaultFee}), ShouldBeNil)

		balance := func(id weave.Address) uint64 {
			acc, err := ledger.Account(db, id)
			So(err, ShouldBeNil)
			return acc.Amount
		}
		run := func(signer weave.Condition, amount uint64) (*weave.DeliverResult, error) {
			auth := &weavetest.Auth{Signer: signer}
			h := TransferHandler{auth: auth, tokens: token.NewController(auth)}
			tx := &weavetest.Tx{Msg: &TransferMsg{Source: source, Receiver: receiver, Amount: amount}}
			if _, err := h.Check(context.Background(), db.CacheWrap(), tx); err != nil {
				return nil, err
			}
			return h.Deliver(context.Background(), db, tx)
		}

		Convey("Transfer of 1000 pays 50 to the service", func() {
			res, err := run(alice, 1000)
			So(err, ShouldBeNil)
			So(balance(source), ShouldEqual, 0)
			So(balance(receiver), ShouldEqual, 950)
			So(balance(service), ShouldEqual, 50)

			net, fee, err := DecodeSplit(res.Data)
			So(err, ShouldBeNil)
			So(net, ShouldEqual, 950)
			So(fee, ShouldEqual, 50)
		})

		Convey("Transfer of 120 pays 6 to the service", func() {
			_, err := run(alice, 120)
			So(err, ShouldBeNil)
			So(balance(source), ShouldEqual, 880)
			So(balance(receiver), ShouldEqual, 114)
			So(balance(service), ShouldEqual, 6)
		})

		Convey("Small transfer pays no fee", func() {
			res, err := run(alice, 19)
			So(err, ShouldBeNil)
			So(balance(receiver), ShouldEqual, 19)
			So(balance(service), ShouldEqual, 0)
			So(res.Data, ShouldResemble, encodeSplit(19, 0))
		})

		Convey("Source balance must cover the whole amount", func() {
			_, err := run(alice, 1001)
			So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
			So(balance(source), ShouldEqual, 1000)
		})

		Convey("Source owner must sign", func() {
			_, err := run(bob, 100)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			So(balance(source), ShouldEqual, 1000)
		})

		Convey("Failed fee payment reverts the receiver payment", func() {
			So(SaveConfiguration(db, Configuration{ServiceAccount: serviceY, Fee: DefaultFee}), ShouldBeNil)

			_, err := run(alice, 100)
			So(errors.ErrCurrency.Is(err), ShouldBeTrue)
			So(balance(source), ShouldEqual, 1000)
			So(balance(receiver), ShouldEqual, 0)
			So(balance(serviceY), ShouldEqual, 0)
		})
	})
}

func TestGenesis(t *testing.T) {
	Convey("Test initializer", t, func() {
		db := store.MemStore()
		var init Initializer

		Convey("Fee defaults to five percent", func() {
			var opts weave.Options
			err := json.Unmarshal([]byte(`{"conf": {"feesplit": {"service_account": "1111111111111111111111111111111111111111"}}}`), &opts)
			So(err, ShouldBeNil)
			So(init.FromGenesis(opts, db), ShouldBeNil)

			conf, err := loadConf(db)
			So(err, ShouldBeNil)
			So(conf.Fee, ShouldResemble, DefaultFee)
		})

		Convey("Fee can be configured", func() {
			var opts weave.Options
			err := json.Unmarshal([]byte(`{"conf": {"feesplit": {"service_account": "1111111111111111111111111111111111111111", "fee": "1/10"}}}`), &opts)
			So(err, ShouldBeNil)
			So(init.FromGenesis(opts, db), ShouldBeNil)

			conf, err := loadConf(db)
			So(err, ShouldBeNil)
			So(conf.Fee, ShouldResemble, weave.Fraction{Numerator: 1, Denominator: 10})
		})

		Convey("Fee must be below one", func() {
			var opts weave.Options
			err := json.Unmarshal([]byte(`{"conf": {"feesplit": {"service_account": "1111111111111111111111111111111111111111", "fee": "1"}}}`), &opts)
			So(err, ShouldBeNil)
			So(errors.ErrInput.Is(init.FromGenesis(opts, db)), ShouldBeTrue)
		})

		Convey("Service account is required", func() {
			So(errors.ErrNotFound.Is(init.FromGenesis(weave.Options{}, db)), ShouldBeTrue)
		})
	})
}
