package vesting_test

import (
	"context"
	"testing"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	"github.com/filecoin-project/vesting-actors/actors/builtin/token"
	"github.com/filecoin-project/vesting-actors/actors/builtin/vesting"
	"github.com/filecoin-project/vesting-actors/support/mock"
	tutil "github.com/filecoin-project/vesting-actors/support/testing"
)

func TestExports(t *testing.T) {
	mock.CheckActorExports(t, vesting.Actor{})
}

var (
	receiver      = tutil.NewIDAddr(nil, 1000)
	owner         = tutil.NewIDAddr(nil, 1001)
	tokenContract = tutil.NewIDAddr(nil, 1002)
	anne          = tutil.NewIDAddr(nil, 1003)
	bob           = tutil.NewIDAddr(nil, 1004)
)

func TestConstruction(t *testing.T) {
	actor := vesting.Actor{}
	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(owner, builtin.AccountActorCodeID).
		WithActorType(tokenContract, builtin.TokenActorCodeID)

	t.Run("simple construction", func(t *testing.T) {
		rt := builder.Build(t)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectLogsContain("vesting constructed")
		ret := rt.Call(actor.Constructor, &vesting.ConstructorParams{
			TokenContract:         tokenContract,
			LockinDuration:        10,
			UnlockDuration:        100,
			PerEpochReleaseAmount: big.Zero(),
		})
		assert.Nil(t, ret)
		rt.Verify()

		var st vesting.State
		rt.GetState(&st)
		assert.Equal(t, owner, st.Owner)
		assert.Equal(t, tokenContract, st.TokenContract)
		assert.Equal(t, abi.ChainEpoch(10), st.LockinDuration)
		assert.Equal(t, abi.ChainEpoch(100), st.UnlockDuration)
		assert.False(t, st.LockAllAccounts)
		checkState(t, rt)
	})

	t.Run("resolves token contract address", func(t *testing.T) {
		robust := tutil.NewActorAddr(t, "token")
		rt := builder.Build(t)
		rt.AddIDAddress(robust, tokenContract)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.Call(actor.Constructor, &vesting.ConstructorParams{
			TokenContract:         robust,
			LockinDuration:        10,
			UnlockDuration:        100,
			PerEpochReleaseAmount: big.Zero(),
		})
		rt.Verify()

		var st vesting.State
		rt.GetState(&st)
		assert.Equal(t, tokenContract, st.TokenContract)
	})

	t.Run("fails with unresolvable token contract", func(t *testing.T) {
		rt := builder.Build(t)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbort(exitcode.ErrIllegalArgument, func() {
			rt.Call(actor.Constructor, &vesting.ConstructorParams{
				TokenContract:         tutil.NewActorAddr(t, "unknown"),
				LockinDuration:        10,
				UnlockDuration:        100,
				PerEpochReleaseAmount: big.Zero(),
			})
		})
		rt.Verify()
	})

	t.Run("fails when token contract is not a token actor", func(t *testing.T) {
		notToken := tutil.NewIDAddr(t, 1005)
		rt := mock.NewBuilder(context.Background(), receiver).
			WithCaller(owner, builtin.AccountActorCodeID).
			WithActorType(notToken, builtin.AccountActorCodeID).
			Build(t)
		for _, contract := range []addr.Address{notToken, tutil.NewIDAddr(t, 1006)} {
			rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
			rt.ExpectAbort(exitcode.ErrIllegalArgument, func() {
				rt.Call(actor.Constructor, &vesting.ConstructorParams{
					TokenContract:         contract,
					LockinDuration:        10,
					UnlockDuration:        100,
					PerEpochReleaseAmount: big.Zero(),
				})
			})
			rt.Verify()
		}
	})

	t.Run("construction from a monthly schedule", func(t *testing.T) {
		params, err := vesting.ScheduledConstructorParams(tokenContract, vesting.DefaultLockinMonths, vesting.DefaultUnlockMonths)
		require.NoError(t, err)

		rt := builder.Build(t)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.Call(actor.Constructor, params)
		rt.Verify()

		st := getState(rt)
		assert.Equal(t, abi.ChainEpoch(vesting.DefaultLockinMonths*builtin.EpochsInMonth), st.LockinDuration)
		assert.Equal(t, abi.ChainEpoch(vesting.DefaultUnlockMonths*builtin.EpochsInMonth), st.UnlockDuration)
		assert.False(t, st.IsFixedRate())
		checkState(t, rt)
	})

	t.Run("fails with negative durations", func(t *testing.T) {
		for _, params := range []vesting.ConstructorParams{
			{TokenContract: tokenContract, LockinDuration: -1, UnlockDuration: 100, PerEpochReleaseAmount: big.Zero()},
			{TokenContract: tokenContract, LockinDuration: 10, UnlockDuration: -1, PerEpochReleaseAmount: big.Zero()},
			{TokenContract: tokenContract, LockinDuration: 10, UnlockDuration: 0, PerEpochReleaseAmount: abi.NewTokenAmount(-1)},
			{TokenContract: tokenContract, LockinDuration: 10, UnlockDuration: 100, PerEpochReleaseAmount: abi.NewTokenAmount(1)},
		} {
			p := params
			rt := builder.Build(t)
			rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
			rt.ExpectAbort(exitcode.ErrIllegalArgument, func() {
				rt.Call(actor.Constructor, &p)
			})
			rt.Verify()
		}
	})

	t.Run("fails for non-signable caller", func(t *testing.T) {
		rt := builder.WithCaller(tutil.NewIDAddr(t, 2000), builtin.TokenActorCodeID).Build(t)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(actor.Constructor, &vesting.ConstructorParams{
				TokenContract:         tokenContract,
				UnlockDuration:        100,
				PerEpochReleaseAmount: big.Zero(),
			})
		})
		rt.Verify()
	})
}

func TestReleaseVestedTokens(t *testing.T) {
	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(owner, builtin.AccountActorCodeID).
		WithActorType(tokenContract, builtin.TokenActorCodeID)

	t.Run("end to end schedule", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)
		h.addAllocation(rt, anne, abi.NewTokenAmount(1000))

		rt.SetEpoch(5)
		h.releaseLocked(rt, anne, vesting.ExitCodeAllocationLocked)

		rt.SetEpoch(50)
		h.release(rt, anne, abi.NewTokenAmount(400))

		rt.SetEpoch(200)
		h.release(rt, anne, abi.NewTokenAmount(600))

		view := h.getAllocation(rt, anne)
		assert.Equal(t, abi.NewTokenAmount(1000), view.Allocation.ReleasedAmount)
		assert.True(t, view.Releasable.IsZero())

		rt.SetEpoch(300)
		h.release(rt, anne, big.Zero())

		st := getState(rt)
		assert.Equal(t, abi.NewTokenAmount(1000), st.TotalReleased)
		checkState(t, rt)
	})

	t.Run("locked through the final lock-in epoch", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)
		h.addAllocation(rt, anne, abi.NewTokenAmount(1000))

		rt.SetEpoch(10)
		h.releaseLocked(rt, anne, vesting.ExitCodeAllocationLocked)

		rt.SetEpoch(11)
		h.release(rt, anne, abi.NewTokenAmount(10))
	})

	t.Run("second release in the same epoch transfers nothing", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)
		h.addAllocation(rt, anne, abi.NewTokenAmount(1000))

		rt.SetEpoch(30)
		h.release(rt, anne, abi.NewTokenAmount(200))
		root := rt.StateRoot()
		h.release(rt, anne, big.Zero())
		assert.Equal(t, root, rt.StateRoot())
		checkState(t, rt)
	})

	t.Run("no allocation", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)

		rt.SetEpoch(50)
		h.releaseLocked(rt, bob, exitcode.ErrNotFound)
	})

	t.Run("lock all accounts", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)
		h.addAllocation(rt, anne, abi.NewTokenAmount(1000))
		h.setLockAllAccounts(rt, true)

		rt.SetEpoch(50)
		h.releaseLocked(rt, anne, vesting.ExitCodeAccountsLocked)

		view := h.getAllocation(rt, anne)
		assert.True(t, view.Locked)
		assert.True(t, view.Releasable.IsZero())

		h.setLockAllAccounts(rt, false)
		h.release(rt, anne, abi.NewTokenAmount(400))
	})

	t.Run("failed transfer rolls back the release", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)
		h.addAllocation(rt, anne, abi.NewTokenAmount(1000))

		rt.SetEpoch(50)
		before := rt.StateRoot()
		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectSend(tokenContract, builtin.MethodsToken.Transfer, &token.TransferParams{
			To:     anne,
			Amount: abi.NewTokenAmount(400),
		}, big.Zero(), nil, exitcode.ErrInsufficientFunds)
		rt.ExpectAbortContainsMessage(exitcode.ErrInsufficientFunds, "failed to transfer", func() {
			rt.Call(h.a.ReleaseVestedTokens, nil)
		})
		rt.Verify()
		assert.Equal(t, before, rt.StateRoot())

		view := h.getAllocation(rt, anne)
		assert.True(t, view.Allocation.ReleasedAmount.IsZero())
		assert.Equal(t, abi.NewTokenAmount(400), view.Releasable)

		h.release(rt, anne, abi.NewTokenAmount(400))
		checkState(t, rt)
	})

	t.Run("remainder released at end of unlock period", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)
		h.addAllocation(rt, anne, abi.NewTokenAmount(1005))

		rt.SetEpoch(109)
		h.release(rt, anne, abi.NewTokenAmount(990))
		rt.SetEpoch(110)
		h.release(rt, anne, abi.NewTokenAmount(15))
		checkState(t, rt)
	})

	t.Run("independent beneficiaries", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)
		h.addAllocation(rt, anne, abi.NewTokenAmount(1000))
		rt.SetEpoch(20)
		h.addAllocation(rt, bob, abi.NewTokenAmount(5000))

		rt.SetEpoch(40)
		h.release(rt, anne, abi.NewTokenAmount(300))
		h.release(rt, bob, abi.NewTokenAmount(500))

		st := getState(rt)
		assert.Equal(t, abi.NewTokenAmount(6000), st.TotalAllocated)
		assert.Equal(t, abi.NewTokenAmount(800), st.TotalReleased)
		sum := checkState(t, rt)
		assert.Equal(t, 2, sum.AllocationCount)
		assert.Equal(t, uint64(2), sum.ReleaseCount)
	})
}

func TestAddAllocation(t *testing.T) {
	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(owner, builtin.AccountActorCodeID).
		WithActorType(tokenContract, builtin.TokenActorCodeID)

	t.Run("resolves beneficiary address", func(t *testing.T) {
		robust := tutil.NewSECP256K1Addr(t, "anne")
		rt := builder.Build(t)
		rt.AddIDAddress(robust, anne)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)
		h.addAllocation(rt, robust, abi.NewTokenAmount(1000))

		view := h.getAllocation(rt, anne)
		assert.Equal(t, abi.NewTokenAmount(1000), view.Allocation.TotalAmount)
		assert.Equal(t, abi.NewTokenAmount(10), view.Allocation.PerEpochReleaseAmount)
	})

	t.Run("fails when total does not exceed unlock duration", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)
		before := rt.StateRoot()

		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectAbort(exitcode.ErrIllegalArgument, func() {
			rt.Call(h.a.AddAllocation, &vesting.AddAllocationParams{Beneficiary: anne, TotalAmount: abi.NewTokenAmount(100)})
		})
		rt.Verify()
		assert.Equal(t, before, rt.StateRoot())
	})

	t.Run("fails for non-owner", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)
		before := rt.StateRoot()

		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(h.a.AddAllocation, &vesting.AddAllocationParams{Beneficiary: anne, TotalAmount: abi.NewTokenAmount(1000)})
		})
		rt.Verify()
		assert.Equal(t, before, rt.StateRoot())
	})
}

func TestSetLockAllAccounts(t *testing.T) {
	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(owner, builtin.AccountActorCodeID).
		WithActorType(tokenContract, builtin.TokenActorCodeID)

	t.Run("fails for non-owner", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)

		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(h.a.SetLockAllAccounts, &vesting.SetLockAllAccountsParams{LockAllAccounts: true})
		})
		rt.Verify()
		assert.False(t, getState(rt).LockAllAccounts)
	})
}

func TestSetPerEpochReleaseAmount(t *testing.T) {
	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(owner, builtin.AccountActorCodeID).
		WithActorType(tokenContract, builtin.TokenActorCodeID)

	t.Run("fixed rate vesting", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 0)
		h.perEpoch = abi.NewTokenAmount(5)
		h.constructAndVerify(rt)
		h.addAllocation(rt, anne, abi.NewTokenAmount(100))

		rt.SetEpoch(14)
		h.release(rt, anne, abi.NewTokenAmount(20))

		h.setPerEpochReleaseAmount(rt, abi.NewTokenAmount(30))
		rt.SetEpoch(16)
		h.release(rt, anne, abi.NewTokenAmount(60))
		rt.SetEpoch(100)
		h.release(rt, anne, abi.NewTokenAmount(20))
		checkState(t, rt)
	})

	t.Run("rejected when rate is derived from the schedule", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)

		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectAbort(exitcode.ErrIllegalState, func() {
			rt.Call(h.a.SetPerEpochReleaseAmount, &vesting.SetPerEpochReleaseAmountParams{Amount: abi.NewTokenAmount(5)})
		})
		rt.Verify()
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 0)
		h.constructAndVerify(rt)

		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectAbort(exitcode.ErrIllegalArgument, func() {
			rt.Call(h.a.SetPerEpochReleaseAmount, &vesting.SetPerEpochReleaseAmountParams{Amount: abi.NewTokenAmount(-1)})
		})
		rt.Verify()
	})
}

func TestChangeOwner(t *testing.T) {
	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(owner, builtin.AccountActorCodeID).
		WithActorType(tokenContract, builtin.TokenActorCodeID)

	t.Run("new owner takes over administration", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)

		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectLogsContain("owner changed")
		rt.Call(h.a.ChangeOwner, &bob)
		rt.Verify()
		assert.Equal(t, bob, getState(rt).Owner)

		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(bob)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(h.a.SetLockAllAccounts, &vesting.SetLockAllAccountsParams{LockAllAccounts: true})
		})
		rt.Verify()

		h.owner = bob
		h.setLockAllAccounts(rt, true)
	})

	t.Run("fails for non-owner", func(t *testing.T) {
		rt := builder.Build(t)
		h := newHarness(t, 10, 100)
		h.constructAndVerify(rt)

		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(owner)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(h.a.ChangeOwner, &anne)
		})
		rt.Verify()
		assert.Equal(t, owner, getState(rt).Owner)
	})
}

func TestGetAllocation(t *testing.T) {
	builder := mock.NewBuilder(context.Background(), receiver).
		WithCaller(owner, builtin.AccountActorCodeID).
		WithActorType(tokenContract, builtin.TokenActorCodeID)
	rt := builder.Build(t)
	h := newHarness(t, 10, 100)
	h.constructAndVerify(rt)
	h.addAllocation(rt, anne, abi.NewTokenAmount(1000))

	view := h.getAllocation(rt, anne)
	assert.True(t, view.Locked)
	assert.True(t, view.Releasable.IsZero())
	assert.Equal(t, abi.ChainEpoch(10), view.Allocation.LastReleasedEpoch)

	rt.SetEpoch(25)
	view = h.getAllocation(rt, anne)
	assert.False(t, view.Locked)
	assert.Equal(t, abi.NewTokenAmount(150), view.Releasable)

	rt.ExpectValidateCallerAny()
	rt.ExpectAbort(exitcode.ErrNotFound, func() {
		rt.Call(h.a.GetAllocation, &bob)
	})
	rt.Verify()
}

type actorHarness struct {
	a        vesting.Actor
	t        testing.TB
	owner    addr.Address
	lockin   abi.ChainEpoch
	unlock   abi.ChainEpoch
	perEpoch abi.TokenAmount
}

func newHarness(t testing.TB, lockin, unlock abi.ChainEpoch) *actorHarness {
	return &actorHarness{
		a:        vesting.Actor{},
		t:        t,
		owner:    owner,
		lockin:   lockin,
		unlock:   unlock,
		perEpoch: big.Zero(),
	}
}

func (h *actorHarness) constructAndVerify(rt *mock.Runtime) {
	rt.SetCaller(h.owner, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
	rt.Call(h.a.Constructor, &vesting.ConstructorParams{
		TokenContract:         tokenContract,
		LockinDuration:        h.lockin,
		UnlockDuration:        h.unlock,
		PerEpochReleaseAmount: h.perEpoch,
	})
	rt.Verify()
}

func (h *actorHarness) addAllocation(rt *mock.Runtime, beneficiary addr.Address, total abi.TokenAmount) {
	rt.SetCaller(h.owner, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerAddr(h.owner)
	rt.ExpectLogsContain("allocated")
	rt.Call(h.a.AddAllocation, &vesting.AddAllocationParams{Beneficiary: beneficiary, TotalAmount: total})
	rt.Verify()
}

func (h *actorHarness) release(rt *mock.Runtime, beneficiary addr.Address, expected abi.TokenAmount) {
	rt.SetCaller(beneficiary, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerAny()
	if !expected.IsZero() {
		rt.ExpectSend(tokenContract, builtin.MethodsToken.Transfer, &token.TransferParams{
			To:     beneficiary,
			Amount: expected,
		}, big.Zero(), nil, exitcode.Ok)
		rt.ExpectLogsContain("released")
	}
	ret := rt.Call(h.a.ReleaseVestedTokens, nil).(*abi.TokenAmount)
	rt.Verify()
	assert.Equal(h.t, expected.String(), ret.String())
}

func (h *actorHarness) releaseLocked(rt *mock.Runtime, beneficiary addr.Address, code exitcode.ExitCode) {
	before := rt.StateRoot()
	rt.SetCaller(beneficiary, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerAny()
	rt.ExpectAbort(code, func() {
		rt.Call(h.a.ReleaseVestedTokens, nil)
	})
	rt.Verify()
	assert.Equal(h.t, before, rt.StateRoot())
}

func (h *actorHarness) setLockAllAccounts(rt *mock.Runtime, lock bool) {
	rt.SetCaller(h.owner, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerAddr(h.owner)
	rt.Call(h.a.SetLockAllAccounts, &vesting.SetLockAllAccountsParams{LockAllAccounts: lock})
	rt.Verify()
	assert.Equal(h.t, lock, getState(rt).LockAllAccounts)
}

func (h *actorHarness) setPerEpochReleaseAmount(rt *mock.Runtime, amount abi.TokenAmount) {
	rt.SetCaller(h.owner, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerAddr(h.owner)
	rt.Call(h.a.SetPerEpochReleaseAmount, &vesting.SetPerEpochReleaseAmountParams{Amount: amount})
	rt.Verify()
	assert.Equal(h.t, amount, getState(rt).PerEpochReleaseAmount)
}

func (h *actorHarness) getAllocation(rt *mock.Runtime, beneficiary addr.Address) *vesting.AllocationView {
	rt.ExpectValidateCallerAny()
	view := rt.Call(h.a.GetAllocation, &beneficiary).(*vesting.AllocationView)
	rt.Verify()
	require.NotNil(h.t, view)
	return view
}

func getState(rt *mock.Runtime) *vesting.State {
	var st vesting.State
	rt.GetState(&st)
	return &st
}

func checkState(t testing.TB, rt *mock.Runtime) *vesting.StateSummary {
	sum, msgs, err := vesting.CheckStateInvariants(getState(rt), rt.AdtStore())
	require.NoError(t, err)
	assert.True(t, msgs.IsEmpty(), "%v", msgs.Messages())
	return sum
}
