package init_test

import (
	"context"
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	init_ "github.com/filecoin-project/vesting-actors/actors/builtin/init"
	"github.com/filecoin-project/vesting-actors/actors/util/adt"
	"github.com/filecoin-project/vesting-actors/support/ipld"
	"github.com/filecoin-project/vesting-actors/support/mock"
	tutil "github.com/filecoin-project/vesting-actors/support/testing"
)

func TestExports(t *testing.T) {
	mock.CheckActorExports(t, init_.Actor{})
}

func TestConstructor(t *testing.T) {
	actor := initHarness{init_.Actor{}, t}

	receiver := tutil.NewIDAddr(t, 1000)
	builder := mock.NewBuilder(context.Background(), receiver).WithCaller(builtin.SystemActorAddr, builtin.SystemActorCodeID)

	t.Run("construct by system", func(t *testing.T) {
		rt := builder.Build(t)
		actor.constructAndVerify(rt)
	})

	t.Run("construct by anyone else fails", func(t *testing.T) {
		rt := builder.Build(t)
		rt.SetCaller(tutil.NewIDAddr(t, 1001), builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(builtin.SystemActorAddr)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(actor.Constructor, &init_.ConstructorParams{NetworkName: "mock"})
		})
		rt.Verify()
	})
}

func TestAddressMap(t *testing.T) {
	store := ipld.NewADTStore(context.Background())

	st, err := init_.ConstructState(store, "mock")
	require.NoError(t, err)

	anne := tutil.NewSECP256K1Addr(t, "anne")
	bob := tutil.NewBLSAddrs(t, 1, 93837778)[0]
	vault := tutil.NewActorAddr(t, "vesting")

	t.Run("ID addresses resolve to themselves", func(t *testing.T) {
		idAddr := tutil.NewIDAddr(t, 7)
		resolved, found, err := st.ResolveAddress(store, idAddr)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, idAddr, resolved)
	})

	t.Run("unknown addresses do not resolve", func(t *testing.T) {
		_, found, err := st.ResolveAddress(store, anne)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("mapped addresses receive sequential IDs", func(t *testing.T) {
		anneID, err := st.MapAddressToNewID(store, anne)
		require.NoError(t, err)
		bobID, err := st.MapAddressToNewID(store, bob)
		require.NoError(t, err)
		vaultID, err := st.MapAddressToNewID(store, vault)
		require.NoError(t, err)

		assert.Equal(t, tutil.NewIDAddr(t, builtin.FirstNonSingletonActorId), anneID)
		assert.Equal(t, tutil.NewIDAddr(t, builtin.FirstNonSingletonActorId+1), bobID)
		assert.Equal(t, tutil.NewIDAddr(t, builtin.FirstNonSingletonActorId+2), vaultID)
		assert.Equal(t, abi.ActorID(builtin.FirstNonSingletonActorId+3), st.NextID)

		resolved, found, err := st.ResolveAddress(store, bob)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, bobID, resolved)

		summary, msgs, err := init_.CheckStateInvariants(st, store)
		require.NoError(t, err)
		assert.True(t, msgs.IsEmpty(), "%v", msgs.Messages())
		assert.Len(t, summary.AddrIDs, 3)
	})

	t.Run("an address may only be mapped once", func(t *testing.T) {
		_, err := st.MapAddressToNewID(store, anne)
		assert.Error(t, err)
	})

	t.Run("ID addresses are never mapped", func(t *testing.T) {
		_, err := st.MapAddressToNewID(store, tutil.NewIDAddr(t, 1))
		assert.Error(t, err)
	})
}

type initHarness struct {
	init_.Actor
	t testing.TB
}

func (h *initHarness) constructAndVerify(rt *mock.Runtime) {
	rt.ExpectValidateCallerAddr(builtin.SystemActorAddr)
	ret := rt.Call(h.Constructor, &init_.ConstructorParams{NetworkName: "mock"})
	assert.Nil(h.t, ret)
	rt.Verify()

	var st init_.State
	rt.GetState(&st)
	emptyMap, err := adt.AsMap(rt.AdtStore(), st.AddressMap, builtin.DefaultHamtBitwidth)
	require.NoError(h.t, err)
	root, err := emptyMap.Root()
	require.NoError(h.t, err)
	assert.Equal(h.t, root, st.AddressMap)
	assert.Equal(h.t, abi.ActorID(builtin.FirstNonSingletonActorId), st.NextID)
	assert.Equal(h.t, "mock", st.NetworkName)
}
