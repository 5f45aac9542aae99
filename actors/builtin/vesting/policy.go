package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
)

// Schedule lengths used when an allocation schedule is specified in months rather than epochs.
const (
	DefaultLockinMonths = 12
	DefaultUnlockMonths = 24
	// Longest lock-in or unlock period expressible in months.
	MaxScheduleMonths = 100 * 12
)

// ScheduleFromMonths converts human-specified lock-in and unlock periods into epoch durations.
func ScheduleFromMonths(lockinMonths, unlockMonths uint64) (lockin, unlock abi.ChainEpoch, err error) {
	if lockinMonths > MaxScheduleMonths || unlockMonths > MaxScheduleMonths {
		return 0, 0, xerrors.Errorf("schedule of %d+%d months exceeds %d months per period",
			lockinMonths, unlockMonths, MaxScheduleMonths)
	}
	return abi.ChainEpoch(lockinMonths) * builtin.EpochsInMonth, abi.ChainEpoch(unlockMonths) * builtin.EpochsInMonth, nil
}

// ScheduledConstructorParams builds constructor params for a linear schedule given in months.
func ScheduledConstructorParams(tokenContract addr.Address, lockinMonths, unlockMonths uint64) (*ConstructorParams, error) {
	lockin, unlock, err := ScheduleFromMonths(lockinMonths, unlockMonths)
	if err != nil {
		return nil, err
	}
	return &ConstructorParams{
		TokenContract:         tokenContract,
		LockinDuration:        lockin,
		UnlockDuration:        unlock,
		PerEpochReleaseAmount: big.Zero(),
	}, nil
}

// Exit codes specific to this actor.
const (
	// A release was attempted before the allocation's lock-in period elapsed.
	ExitCodeAllocationLocked = exitcode.FirstActorSpecificExitCode + iota
	// A release was attempted while the owner has locked all accounts.
	ExitCodeAccountsLocked
)

var (
	ErrNoAllocation       = xerrors.New("no allocation")
	ErrLocked             = xerrors.New("allocation is within its lock-in period")
	ErrAccountsLocked     = xerrors.New("all accounts are locked")
	ErrInsufficientAmount = xerrors.New("insufficient allocation amount")
	ErrNotOwner           = xerrors.New("caller is not the owner")
	ErrEpochRegression    = xerrors.New("epoch precedes reference epoch")
	ErrFixedRateOnly      = xerrors.New("per-epoch release amount is derived from the unlock schedule")
)

// ExitCodeFor maps an error returned by state methods to the exit code an actor method aborts with.
func ExitCodeFor(err error) exitcode.ExitCode {
	switch {
	case xerrors.Is(err, ErrNoAllocation):
		return exitcode.ErrNotFound
	case xerrors.Is(err, ErrLocked):
		return ExitCodeAllocationLocked
	case xerrors.Is(err, ErrAccountsLocked):
		return ExitCodeAccountsLocked
	case xerrors.Is(err, ErrInsufficientAmount):
		return exitcode.ErrIllegalArgument
	case xerrors.Is(err, ErrNotOwner):
		return exitcode.ErrForbidden
	default:
		return exitcode.ErrIllegalState
	}
}
