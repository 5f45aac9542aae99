package token

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/exitcode"
	cid "github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	"github.com/filecoin-project/vesting-actors/actors/runtime"
	"github.com/filecoin-project/vesting-actors/actors/util/adt"
)

type Actor struct{}

func (a Actor) Exports() []interface{} {
	return []interface{}{
		builtin.MethodConstructor: a.Constructor,
		2:                         a.Mint,
		3:                         a.Transfer,
		4:                         a.BalanceOf,
	}
}

func (a Actor) Code() cid.Cid {
	return builtin.TokenActorCodeID
}

func (a Actor) State() cbor.Er {
	return new(State)
}

var _ runtime.VMActor = Actor{}

type ConstructorParams struct {
	Minter addr.Address
}

func (a Actor) Constructor(rt runtime.Runtime, params *ConstructorParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)

	minter, ok := rt.ResolveAddress(params.Minter)
	if !ok {
		rt.Abortf(exitcode.ErrIllegalArgument, "unable to resolve minter address %v", params.Minter)
	}

	st, err := ConstructState(adt.AsStore(rt), minter)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to construct state")
	rt.State().Create(st)
	return nil
}

type MintParams struct {
	To     addr.Address
	Amount abi.TokenAmount
}

func (a Actor) Mint(rt runtime.Runtime, params *MintParams) *abi.EmptyValue {
	var st State
	rt.State().Readonly(&st)
	rt.ValidateImmediateCallerIs(st.Minter)

	builtin.RequireParam(rt, params.Amount.Sign() > 0, "mint amount %v must be positive", params.Amount)
	to := resolveRecipient(rt, params.To)

	rt.State().Transaction(&st, func() {
		err := st.Mint(adt.AsStore(rt), to, params.Amount)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to mint %v to %v", params.Amount, to)
	})
	return nil
}

type TransferParams struct {
	To     addr.Address
	Amount abi.TokenAmount
}

func (a Actor) Transfer(rt runtime.Runtime, params *TransferParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	builtin.RequireParam(rt, params.Amount.Sign() >= 0, "negative transfer amount %v", params.Amount)

	from := rt.Message().Caller()
	to := resolveRecipient(rt, params.To)

	var st State
	rt.State().Transaction(&st, func() {
		err := st.Transfer(adt.AsStore(rt), from, to, params.Amount)
		code := exitcode.ErrIllegalState
		if xerrors.Is(err, ErrInsufficientBalance) {
			code = exitcode.ErrInsufficientFunds
		}
		builtin.RequireNoErr(rt, err, code, "failed to transfer %v from %v to %v", params.Amount, from, to)
	})
	return nil
}

func (a Actor) BalanceOf(rt runtime.Runtime, who *addr.Address) *abi.TokenAmount {
	rt.ValidateImmediateCallerAcceptAny()

	resolved, ok := rt.ResolveAddress(*who)
	if !ok {
		rt.Abortf(exitcode.ErrNotFound, "failed to resolve address %v", who)
	}

	var st State
	rt.State().Readonly(&st)
	balance, err := st.BalanceOf(adt.AsStore(rt), resolved)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to get balance of %v", resolved)
	return &balance
}

func resolveRecipient(rt runtime.Runtime, to addr.Address) addr.Address {
	resolved, ok := rt.ResolveAddress(to)
	if !ok {
		rt.Abortf(exitcode.ErrIllegalArgument, "failed to resolve recipient address %v", to)
	}
	return resolved
}
