package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/exitcode"
	rtt "github.com/filecoin-project/go-state-types/rt"
	cid "github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	"github.com/filecoin-project/vesting-actors/actors/builtin/token"
	"github.com/filecoin-project/vesting-actors/actors/runtime"
	"github.com/filecoin-project/vesting-actors/actors/util/adt"
)

type Actor struct{}

func (a Actor) Exports() []interface{} {
	return []interface{}{
		builtin.MethodConstructor: a.Constructor,
		2:                         a.ReleaseVestedTokens,
		3:                         a.AddAllocation,
		4:                         a.SetLockAllAccounts,
		5:                         a.SetPerEpochReleaseAmount,
		6:                         a.ChangeOwner,
		7:                         a.GetAllocation,
	}
}

func (a Actor) Code() cid.Cid {
	return builtin.VestingActorCodeID
}

func (a Actor) State() cbor.Er {
	return new(State)
}

var _ runtime.VMActor = Actor{}

type ConstructorParams struct {
	TokenContract  addr.Address
	LockinDuration abi.ChainEpoch
	// Zero selects fixed-rate vesting at PerEpochReleaseAmount.
	UnlockDuration        abi.ChainEpoch
	PerEpochReleaseAmount abi.TokenAmount
}

// Constructor binds the schedule and token contract, and makes the caller the owner.
func (a Actor) Constructor(rt runtime.Runtime, params *ConstructorParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)

	builtin.RequireParam(rt, params.LockinDuration >= 0, "negative lock-in duration %d", params.LockinDuration)
	builtin.RequireParam(rt, params.UnlockDuration >= 0, "negative unlock duration %d", params.UnlockDuration)
	builtin.RequireParam(rt, params.PerEpochReleaseAmount.Sign() >= 0, "negative per-epoch release amount %v", params.PerEpochReleaseAmount)
	if params.UnlockDuration > 0 {
		builtin.RequireParam(rt, params.PerEpochReleaseAmount.IsZero(),
			"per-epoch release amount %v given with unlock duration %d", params.PerEpochReleaseAmount, params.UnlockDuration)
	}

	tokenContract, ok := rt.ResolveAddress(params.TokenContract)
	if !ok {
		rt.Abortf(exitcode.ErrIllegalArgument, "failed to resolve token contract address %v", params.TokenContract)
	}
	if code, ok := rt.GetActorCodeCID(tokenContract); !ok || !code.Equals(builtin.TokenActorCodeID) {
		rt.Abortf(exitcode.ErrIllegalArgument, "token contract %v is not a token actor", tokenContract)
	}
	owner := rt.Message().Caller()

	st, err := ConstructState(adt.AsStore(rt), tokenContract, owner, params.LockinDuration, params.UnlockDuration, params.PerEpochReleaseAmount)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to construct state")
	rt.State().Create(st)

	rt.Log(builtin.GetActorLogLevel(a, rtt.INFO), "vesting constructed: owner %v token %v lock-in %d unlock %d",
		owner, tokenContract, params.LockinDuration, params.UnlockDuration)
	return nil
}

// ReleaseVestedTokens releases the caller's currently unlocked tokens, returning the amount released.
// The release is committed to state before the transfer is sent. A failed transfer aborts,
// rolling the release back.
func (a Actor) ReleaseVestedTokens(rt runtime.Runtime, _ *abi.EmptyValue) *abi.TokenAmount {
	rt.ValidateImmediateCallerAcceptAny()
	beneficiary := rt.Message().Caller()

	var st State
	released := big.Zero()
	rt.State().Transaction(&st, func() {
		var err error
		released, err = st.Release(adt.AsStore(rt), beneficiary, rt.CurrEpoch())
		builtin.RequireNoErr(rt, err, ExitCodeFor(err), "failed to release vested tokens for %v", beneficiary)
	})

	if released.IsZero() {
		rt.Log(builtin.GetActorLogLevel(a, rtt.DEBUG), "nothing to release for %v at %d", beneficiary, rt.CurrEpoch())
		return &released
	}

	code := rt.Send(st.TokenContract, builtin.MethodsToken.Transfer, &token.TransferParams{
		To:     beneficiary,
		Amount: released,
	}, big.Zero(), nil)
	builtin.RequireSuccess(rt, code, "failed to transfer %v released tokens to %v", released, beneficiary)

	rt.Log(builtin.GetActorLogLevel(a, rtt.INFO), "released %v to %v at %d", released, beneficiary, rt.CurrEpoch())
	return &released
}

type AddAllocationParams struct {
	Beneficiary addr.Address
	TotalAmount abi.TokenAmount
}

// AddAllocation grants an allocation starting at the current epoch, replacing any previous
// allocation for the same beneficiary.
func (a Actor) AddAllocation(rt runtime.Runtime, params *AddAllocationParams) *abi.EmptyValue {
	var st State
	rt.State().Readonly(&st)
	rt.ValidateImmediateCallerIs(st.CurrentOwner())
	caller := rt.Message().Caller()

	beneficiary, ok := rt.ResolveAddress(params.Beneficiary)
	if !ok {
		rt.Abortf(exitcode.ErrIllegalArgument, "failed to resolve beneficiary address %v", params.Beneficiary)
	}

	var alloc *Allocation
	rt.State().Transaction(&st, func() {
		var err error
		alloc, err = st.AddAllocation(adt.AsStore(rt), caller, beneficiary, params.TotalAmount, rt.CurrEpoch())
		builtin.RequireNoErr(rt, err, ExitCodeFor(err), "failed to add allocation for %v", beneficiary)
	})

	rt.Log(builtin.GetActorLogLevel(a, rtt.INFO), "allocated %v to %v at %d, releasable from %d",
		alloc.TotalAmount, beneficiary, alloc.StartEpoch, alloc.LastReleasedEpoch+1)
	return nil
}

type SetLockAllAccountsParams struct {
	LockAllAccounts bool
}

func (a Actor) SetLockAllAccounts(rt runtime.Runtime, params *SetLockAllAccountsParams) *abi.EmptyValue {
	var st State
	rt.State().Readonly(&st)
	rt.ValidateImmediateCallerIs(st.CurrentOwner())
	caller := rt.Message().Caller()

	rt.State().Transaction(&st, func() {
		err := st.SetLockAllAccounts(caller, params.LockAllAccounts)
		builtin.RequireNoErr(rt, err, ExitCodeFor(err), "failed to set account lock")
	})

	rt.Log(builtin.GetActorLogLevel(a, rtt.WARN), "lock all accounts set to %t", params.LockAllAccounts)
	return nil
}

type SetPerEpochReleaseAmountParams struct {
	Amount abi.TokenAmount
}

// SetPerEpochReleaseAmount changes the shared release rate. Only valid for fixed-rate vesting.
func (a Actor) SetPerEpochReleaseAmount(rt runtime.Runtime, params *SetPerEpochReleaseAmountParams) *abi.EmptyValue {
	var st State
	rt.State().Readonly(&st)
	rt.ValidateImmediateCallerIs(st.CurrentOwner())
	caller := rt.Message().Caller()

	builtin.RequireParam(rt, params.Amount.Sign() >= 0, "negative per-epoch release amount %v", params.Amount)

	rt.State().Transaction(&st, func() {
		err := st.SetPerEpochReleaseAmount(caller, params.Amount)
		builtin.RequireNoErr(rt, err, ExitCodeFor(err), "failed to set per-epoch release amount")
	})
	return nil
}

func (a Actor) ChangeOwner(rt runtime.Runtime, newOwner *addr.Address) *abi.EmptyValue {
	var st State
	rt.State().Readonly(&st)
	rt.ValidateImmediateCallerIs(st.CurrentOwner())
	caller := rt.Message().Caller()

	resolved, ok := rt.ResolveAddress(*newOwner)
	if !ok {
		rt.Abortf(exitcode.ErrIllegalArgument, "failed to resolve new owner address %v", newOwner)
	}

	rt.State().Transaction(&st, func() {
		err := st.ChangeOwner(caller, resolved)
		builtin.RequireNoErr(rt, err, ExitCodeFor(err), "failed to change owner")
	})

	rt.Log(builtin.GetActorLogLevel(a, rtt.WARN), "owner changed from %v to %v", caller, resolved)
	return nil
}

type AllocationView struct {
	Allocation Allocation
	// Amount a release at the current epoch would transfer.
	Releasable abi.TokenAmount
	// Whether a release at the current epoch would be rejected by a lock.
	Locked bool
}

func (a Actor) GetAllocation(rt runtime.Runtime, beneficiary *addr.Address) *AllocationView {
	rt.ValidateImmediateCallerAcceptAny()

	resolved, ok := rt.ResolveAddress(*beneficiary)
	if !ok {
		rt.Abortf(exitcode.ErrNotFound, "failed to resolve beneficiary address %v", beneficiary)
	}

	var st State
	rt.State().Readonly(&st)
	alloc, found, err := st.GetAllocation(adt.AsStore(rt), resolved)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load allocation for %v", resolved)
	if !found {
		rt.Abortf(exitcode.ErrNotFound, "no allocation for %v", resolved)
	}

	view := AllocationView{Allocation: *alloc, Releasable: big.Zero(), Locked: st.LockAllAccounts}
	if !view.Locked {
		releasable, err := st.ComputeReleasable(alloc, rt.CurrEpoch())
		if xerrors.Is(err, ErrLocked) {
			view.Locked = true
		} else {
			builtin.RequireNoErr(rt, err, ExitCodeFor(err), "failed to compute releasable amount for %v", resolved)
			view.Releasable = releasable
		}
	}
	return &view
}
