package builtin_test

import (
	"io"
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/cbor"
	rtt "github.com/filecoin-project/go-state-types/rt"
	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/assert"
	cbg "github.com/whyrusleeping/cbor-gen"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	"github.com/filecoin-project/vesting-actors/actors/runtime"
)

type stateMock struct{}

func (s *stateMock) MarshalCBOR(w io.Writer) error {
	if s == nil {
		_, err := w.Write(cbg.CborNull)
		return err
	}

	return nil
}

func (s *stateMock) UnmarshalCBOR(r io.Reader) error {
	*s = stateMock{}

	return nil
}

type actorMock struct {
}

func (a actorMock) Exports() []interface{} {
	return []interface{}{
		builtin.MethodConstructor: a.Constructor,
	}
}

func (a actorMock) Code() cid.Cid {
	return builtin.SystemActorCodeID
}

func (a actorMock) State() cbor.Er { return new(stateMock) }

func (a actorMock) Constructor(rt runtime.Runtime, _ *abi.EmptyValue) *abi.EmptyValue {
	rt.Log(builtin.GetActorLogLevel(a, rtt.DEBUG), "Constructor func")

	return nil
}

func TestActorLogLevel(t *testing.T) {
	actorMock := actorMock{}
	defer builtin.ResetActorsLogLevel(actorMock)

	t.Run("log with default", func(t *testing.T) {
		assert.Equal(t, rtt.DEBUG, builtin.GetActorLogLevel(actorMock, rtt.DEBUG))
		assert.Equal(t, rtt.INFO, builtin.GetActorLogLevel(actorMock, rtt.INFO))
		assert.Equal(t, rtt.WARN, builtin.GetActorLogLevel(actorMock, rtt.WARN))
		assert.Equal(t, rtt.ERROR, builtin.GetActorLogLevel(actorMock, rtt.ERROR))
	})

	for _, def := range []rtt.LogLevel{rtt.DEBUG, rtt.INFO, rtt.WARN, rtt.ERROR} {
		t.Run("override ignores default", func(t *testing.T) {
			for _, lvl := range []rtt.LogLevel{rtt.DEBUG, rtt.INFO, rtt.WARN, rtt.ERROR} {
				builtin.SetActorsLogLevel(lvl, actorMock)
				assert.Equal(t, lvl, builtin.GetActorLogLevel(actorMock, def))
			}
		})
	}

	t.Run("reset restores default", func(t *testing.T) {
		builtin.SetActorsLogLevel(rtt.ERROR, actorMock)
		builtin.ResetActorsLogLevel(actorMock)
		assert.Equal(t, rtt.WARN, builtin.GetActorLogLevel(actorMock, rtt.WARN))
	})
}
