package sigs

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/orm"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/x"
)

// RegisterRoutes exposes BumpSequenceMsg, which lets a signer void nonces
// it handed out but does not want to use anymore.
func RegisterRoutes(r weave.Registry, auth x.Authenticator) {
	r.Handle(&BumpSequenceMsg{}, bumpHandler{auth: auth, bucket: NewBucket()})
}

type bumpHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

func (h bumpHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.load(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h bumpHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	obj, msg, err := h.load(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	// The signature decorator already consumed one.
	if msg.Increment > 1 {
		AsUser(obj).Sequence += int64(msg.Increment) - 1
		if err := h.bucket.Save(db, obj); err != nil {
			return nil, errors.Wrap(err, "save user")
		}
	}
	return &weave.DeliverResult{}, nil
}

func (h bumpHandler) load(ctx weave.Context, db weave.KVStore, tx weave.Tx) (orm.Object, *BumpSequenceMsg, error) {
	var msg BumpSequenceMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	obj, err := h.bucket.Get(db, signer.Address())
	switch {
	case err != nil:
		return nil, nil, errors.Wrap(err, "bucket")
	case obj == nil:
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "no sequence for %s", signer.Address())
	}
	if AsUser(obj).Sequence+int64(msg.Increment) > maxSequence {
		return nil, nil, errors.Wrap(errors.ErrOverflow, "user sequence")
	}
	return obj, &msg, nil
}
