package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	cid "github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	"github.com/filecoin-project/vesting-actors/actors/util/adt"
)

type State struct {
	// Token actor instructed to transfer released tokens.
	TokenContract addr.Address
	// Administrative identity, the only caller permitted to mutate allocations and flags.
	Owner addr.Address

	// Epochs after an allocation's creation during which nothing may be released.
	LockinDuration abi.ChainEpoch
	// Epochs after the lock-in over which an allocation unlocks linearly.
	// Zero selects fixed-rate vesting, where every allocation unlocks at PerEpochReleaseAmount.
	UnlockDuration abi.ChainEpoch
	// Release rate shared by all allocations in fixed-rate vesting. Always zero otherwise.
	PerEpochReleaseAmount abi.TokenAmount

	// Suspends all releases while set.
	LockAllAccounts bool

	// Sum of TotalAmount over all allocations.
	TotalAllocated abi.TokenAmount
	// Sum of every amount ever released.
	TotalReleased abi.TokenAmount

	Allocations cid.Cid // HAMT[addr.Address]Allocation
	Releases    cid.Cid // AMT[uint64]ReleaseRecord
}

// Allocation is a beneficiary's vesting grant.
type Allocation struct {
	// Total tokens granted. Never changes after creation.
	TotalAmount abi.TokenAmount
	// Cumulative tokens released, never more than TotalAmount.
	ReleasedAmount abi.TokenAmount
	// Epoch at which the allocation was created.
	StartEpoch abi.ChainEpoch
	// Epoch of the last release, initially the end of the lock-in period.
	LastReleasedEpoch abi.ChainEpoch
	// TotalAmount / UnlockDuration, rounded down. Zero for fixed-rate vesting.
	PerEpochReleaseAmount abi.TokenAmount
}

// ReleaseRecord journals a single committed release.
type ReleaseRecord struct {
	Beneficiary addr.Address
	Epoch       abi.ChainEpoch
	Amount      abi.TokenAmount
}

// Ownership is the capability consulted before administrative mutations.
type Ownership interface {
	CurrentOwner() addr.Address
	SetOwner(owner addr.Address)
}

var _ Ownership = (*State)(nil)

func ConstructState(store adt.Store, tokenContract, owner addr.Address, lockin, unlock abi.ChainEpoch, perEpoch abi.TokenAmount) (*State, error) {
	emptyMapCid, err := adt.StoreEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty map: %w", err)
	}
	emptyArrayCid, err := adt.StoreEmptyArray(store, builtin.DefaultAmtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty array: %w", err)
	}

	return &State{
		TokenContract:         tokenContract,
		Owner:                 owner,
		LockinDuration:        lockin,
		UnlockDuration:        unlock,
		PerEpochReleaseAmount: perEpoch,
		LockAllAccounts:       false,
		TotalAllocated:        big.Zero(),
		TotalReleased:         big.Zero(),
		Allocations:           emptyMapCid,
		Releases:              emptyArrayCid,
	}, nil
}

func (st *State) CurrentOwner() addr.Address {
	return st.Owner
}

func (st *State) SetOwner(owner addr.Address) {
	st.Owner = owner
}

// RequireOwner returns ErrNotOwner unless caller holds the ownership capability.
func RequireOwner(o Ownership, caller addr.Address) error {
	if caller != o.CurrentOwner() {
		return xerrors.Errorf("%v is not %v: %w", caller, o.CurrentOwner(), ErrNotOwner)
	}
	return nil
}

// IsFixedRate reports whether allocations unlock at the shared PerEpochReleaseAmount rather than
// at a rate derived from the unlock duration.
func (st *State) IsFixedRate() bool {
	return st.UnlockDuration == 0
}

// VestingEnd is the first epoch at which an allocation is fully releasable under the unlock schedule.
// Fixed-rate allocations have no scheduled end; ok is false for them.
func (st *State) VestingEnd(a *Allocation) (end abi.ChainEpoch, ok bool) {
	if st.IsFixedRate() {
		return 0, false
	}
	return a.StartEpoch + st.LockinDuration + st.UnlockDuration, true
}

func (st *State) releaseRate(a *Allocation) abi.TokenAmount {
	if st.IsFixedRate() {
		return st.PerEpochReleaseAmount
	}
	return a.PerEpochReleaseAmount
}

// ComputeReleasable returns the amount of an allocation that may be released at an epoch.
// Returns ErrLocked if the lock-in period has not strictly elapsed.
// Once the unlock period has fully elapsed the entire unreleased balance is releasable,
// including any remainder lost to rounding of the per-epoch rate.
func (st *State) ComputeReleasable(a *Allocation, epoch abi.ChainEpoch) (abi.TokenAmount, error) {
	if epoch < a.StartEpoch {
		return big.Zero(), xerrors.Errorf("epoch %d before allocation start %d: %w", epoch, a.StartEpoch, ErrEpochRegression)
	}
	if epoch-a.StartEpoch <= st.LockinDuration {
		return big.Zero(), xerrors.Errorf("epoch %d within lock-in ending %d: %w", epoch, a.StartEpoch+st.LockinDuration, ErrLocked)
	}
	if epoch < a.LastReleasedEpoch {
		return big.Zero(), xerrors.Errorf("epoch %d before last release %d: %w", epoch, a.LastReleasedEpoch, ErrEpochRegression)
	}

	unreleased := big.Max(big.Sub(a.TotalAmount, a.ReleasedAmount), big.Zero())
	if end, ok := st.VestingEnd(a); ok && epoch >= end {
		return unreleased, nil
	}

	elapsed := big.NewInt(int64(epoch - a.LastReleasedEpoch))
	return big.Min(big.Mul(elapsed, st.releaseRate(a)), unreleased), nil
}

// NewAllocation computes the schedule of an allocation created at an epoch.
func (st *State) NewAllocation(total abi.TokenAmount, epoch abi.ChainEpoch) (*Allocation, error) {
	if total.Sign() <= 0 {
		return nil, xerrors.Errorf("total amount %v must be positive: %w", total, ErrInsufficientAmount)
	}

	perEpoch := big.Zero()
	if !st.IsFixedRate() {
		unlock := big.NewInt(int64(st.UnlockDuration))
		if total.LessThanEqual(unlock) {
			return nil, xerrors.Errorf("total amount %v must exceed unlock duration %d: %w", total, st.UnlockDuration, ErrInsufficientAmount)
		}
		perEpoch = big.Div(total, unlock)
	}

	return &Allocation{
		TotalAmount:           total,
		ReleasedAmount:        big.Zero(),
		StartEpoch:            epoch,
		LastReleasedEpoch:     epoch + st.LockinDuration,
		PerEpochReleaseAmount: perEpoch,
	}, nil
}

// AddAllocation creates an allocation for a beneficiary, replacing any existing one.
func (st *State) AddAllocation(store adt.Store, caller, beneficiary addr.Address, total abi.TokenAmount, epoch abi.ChainEpoch) (*Allocation, error) {
	if err := RequireOwner(st, caller); err != nil {
		return nil, err
	}
	alloc, err := st.NewAllocation(total, epoch)
	if err != nil {
		return nil, err
	}

	allocations, err := LoadAllocations(store, st.Allocations)
	if err != nil {
		return nil, err
	}
	prev, found, err := allocations.Get(beneficiary)
	if err != nil {
		return nil, err
	}
	if found {
		st.TotalAllocated = big.Sub(st.TotalAllocated, prev.TotalAmount)
	}
	if err := allocations.Upsert(beneficiary, alloc); err != nil {
		return nil, err
	}
	if st.Allocations, err = allocations.Root(); err != nil {
		return nil, xerrors.Errorf("failed to flush allocations: %w", err)
	}
	st.TotalAllocated = big.Add(st.TotalAllocated, total)
	return alloc, nil
}

// Release computes and records the release of a beneficiary's vested tokens at an epoch.
// A zero result leaves the state untouched.
func (st *State) Release(store adt.Store, beneficiary addr.Address, epoch abi.ChainEpoch) (abi.TokenAmount, error) {
	if st.LockAllAccounts {
		return big.Zero(), xerrors.Errorf("release for %v: %w", beneficiary, ErrAccountsLocked)
	}

	allocations, err := LoadAllocations(store, st.Allocations)
	if err != nil {
		return big.Zero(), err
	}
	alloc, err := allocations.MustGet(beneficiary)
	if err != nil {
		return big.Zero(), err
	}
	amount, err := st.ComputeReleasable(alloc, epoch)
	if err != nil {
		return big.Zero(), err
	}
	if amount.IsZero() {
		return amount, nil
	}

	if _, err := allocations.ApplyRelease(beneficiary, amount, epoch); err != nil {
		return big.Zero(), err
	}
	if st.Allocations, err = allocations.Root(); err != nil {
		return big.Zero(), xerrors.Errorf("failed to flush allocations: %w", err)
	}

	releases, err := adt.AsArray(store, st.Releases, builtin.DefaultAmtBitwidth)
	if err != nil {
		return big.Zero(), xerrors.Errorf("failed to load release journal: %w", err)
	}
	if err := releases.AppendContinuous(&ReleaseRecord{Beneficiary: beneficiary, Epoch: epoch, Amount: amount}); err != nil {
		return big.Zero(), xerrors.Errorf("failed to journal release: %w", err)
	}
	if st.Releases, err = releases.Root(); err != nil {
		return big.Zero(), xerrors.Errorf("failed to flush release journal: %w", err)
	}

	st.TotalReleased = big.Add(st.TotalReleased, amount)
	return amount, nil
}

// GetAllocation loads a beneficiary's allocation, if any.
func (st *State) GetAllocation(store adt.Store, beneficiary addr.Address) (*Allocation, bool, error) {
	allocations, err := LoadAllocations(store, st.Allocations)
	if err != nil {
		return nil, false, err
	}
	return allocations.Get(beneficiary)
}

func (st *State) SetLockAllAccounts(caller addr.Address, lock bool) error {
	if err := RequireOwner(st, caller); err != nil {
		return err
	}
	st.LockAllAccounts = lock
	return nil
}

// SetPerEpochReleaseAmount overrides the shared release rate of fixed-rate vesting.
func (st *State) SetPerEpochReleaseAmount(caller addr.Address, amount abi.TokenAmount) error {
	if err := RequireOwner(st, caller); err != nil {
		return err
	}
	if !st.IsFixedRate() {
		return xerrors.Errorf("unlock duration %d: %w", st.UnlockDuration, ErrFixedRateOnly)
	}
	if amount.Sign() < 0 {
		return xerrors.Errorf("negative per-epoch release amount %v", amount)
	}
	st.PerEpochReleaseAmount = amount
	return nil
}

func (st *State) ChangeOwner(caller, owner addr.Address) error {
	if err := RequireOwner(st, caller); err != nil {
		return err
	}
	st.SetOwner(owner)
	return nil
}
