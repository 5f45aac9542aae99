package token_test

import (
	"context"
	"testing"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	"github.com/filecoin-project/vesting-actors/actors/builtin/token"
	"github.com/filecoin-project/vesting-actors/support/mock"
	tutil "github.com/filecoin-project/vesting-actors/support/testing"
)

func TestExports(t *testing.T) {
	mock.CheckActorExports(t, token.Actor{})
}

func TestToken(t *testing.T) {
	actor := token.Actor{}
	receiver := tutil.NewIDAddr(t, 100)
	minter := tutil.NewIDAddr(t, 101)
	vault := tutil.NewIDAddr(t, 102)
	anne := tutil.NewIDAddr(t, 103)

	builder := mock.NewBuilder(context.Background(), receiver).WithCaller(minter, builtin.AccountActorCodeID)

	construct := func(rt *mock.Runtime) {
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.Call(actor.Constructor, &token.ConstructorParams{Minter: minter})
		rt.Verify()
	}
	mint := func(rt *mock.Runtime, to addr.Address, amount int64) {
		rt.SetCaller(minter, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(minter)
		rt.Call(actor.Mint, &token.MintParams{To: to, Amount: abi.NewTokenAmount(amount)})
		rt.Verify()
	}
	balanceOf := func(rt *mock.Runtime, who addr.Address) abi.TokenAmount {
		rt.ExpectValidateCallerAny()
		ret := rt.Call(actor.BalanceOf, &who).(*abi.TokenAmount)
		rt.Verify()
		return *ret
	}
	checkState := func(rt *mock.Runtime) {
		var st token.State
		rt.GetState(&st)
		_, msgs, err := token.CheckStateInvariants(&st, rt.AdtStore())
		require.NoError(t, err)
		assert.True(t, msgs.IsEmpty(), "%v", msgs.Messages())
	}

	t.Run("mint and transfer", func(t *testing.T) {
		rt := builder.Build(t)
		construct(rt)
		mint(rt, vault, 1000)
		assert.Equal(t, abi.NewTokenAmount(1000), balanceOf(rt, vault))

		rt.SetCaller(vault, builtin.VestingActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.Call(actor.Transfer, &token.TransferParams{To: anne, Amount: abi.NewTokenAmount(400)})
		rt.Verify()

		assert.Equal(t, abi.NewTokenAmount(600), balanceOf(rt, vault))
		assert.Equal(t, abi.NewTokenAmount(400), balanceOf(rt, anne))

		var st token.State
		rt.GetState(&st)
		assert.Equal(t, abi.NewTokenAmount(1000), st.Supply)
		checkState(rt)
	})

	t.Run("transfer of entire balance", func(t *testing.T) {
		rt := builder.Build(t)
		construct(rt)
		mint(rt, vault, 1000)

		rt.SetCaller(vault, builtin.VestingActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.Call(actor.Transfer, &token.TransferParams{To: anne, Amount: abi.NewTokenAmount(1000)})
		rt.Verify()

		assert.True(t, balanceOf(rt, vault).Equals(abi.NewTokenAmount(0)))
		assert.Equal(t, abi.NewTokenAmount(1000), balanceOf(rt, anne))
		checkState(rt)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		rt := builder.Build(t)
		construct(rt)
		mint(rt, vault, 100)

		rt.SetCaller(vault, builtin.VestingActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbort(exitcode.ErrInsufficientFunds, func() {
			rt.Call(actor.Transfer, &token.TransferParams{To: anne, Amount: abi.NewTokenAmount(101)})
		})
		rt.Verify()
		assert.Equal(t, abi.NewTokenAmount(100), balanceOf(rt, vault))
	})

	t.Run("only minter may mint", func(t *testing.T) {
		rt := builder.Build(t)
		construct(rt)

		rt.SetCaller(anne, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(minter)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(actor.Mint, &token.MintParams{To: anne, Amount: abi.NewTokenAmount(1)})
		})
		rt.Verify()
	})

	t.Run("mint amount must be positive", func(t *testing.T) {
		rt := builder.Build(t)
		construct(rt)

		rt.ExpectValidateCallerAddr(minter)
		rt.ExpectAbort(exitcode.ErrIllegalArgument, func() {
			rt.Call(actor.Mint, &token.MintParams{To: anne, Amount: abi.NewTokenAmount(0)})
		})
		rt.Verify()
	})

	t.Run("unknown recipient", func(t *testing.T) {
		rt := builder.Build(t)
		construct(rt)
		mint(rt, vault, 100)

		rt.SetCaller(vault, builtin.VestingActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbort(exitcode.ErrIllegalArgument, func() {
			rt.Call(actor.Transfer, &token.TransferParams{To: tutil.NewSECP256K1Addr(t, "nobody"), Amount: abi.NewTokenAmount(1)})
		})
		rt.Verify()
	})
}
