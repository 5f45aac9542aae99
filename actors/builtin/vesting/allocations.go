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

// Allocations is the table of vesting grants, keyed by beneficiary ID address.
type Allocations struct {
	*adt.Map
}

func LoadAllocations(store adt.Store, root cid.Cid) (*Allocations, error) {
	m, err := adt.AsMap(store, root, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to load allocations %v: %w", root, err)
	}
	return &Allocations{m}, nil
}

func (as *Allocations) Get(beneficiary addr.Address) (*Allocation, bool, error) {
	var out Allocation
	found, err := as.Map.Get(abi.AddrKey(beneficiary), &out)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to load allocation for %v: %w", beneficiary, err)
	}
	if !found {
		return nil, false, nil
	}
	return &out, true, nil
}

// MustGet returns ErrNoAllocation if the beneficiary has no allocation.
func (as *Allocations) MustGet(beneficiary addr.Address) (*Allocation, error) {
	alloc, found, err := as.Get(beneficiary)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, xerrors.Errorf("beneficiary %v: %w", beneficiary, ErrNoAllocation)
	}
	return alloc, nil
}

// Upsert stores an allocation, overwriting any existing one for the beneficiary.
func (as *Allocations) Upsert(beneficiary addr.Address, alloc *Allocation) error {
	if err := as.Map.Put(abi.AddrKey(beneficiary), alloc); err != nil {
		return xerrors.Errorf("failed to store allocation for %v: %w", beneficiary, err)
	}
	return nil
}

// ApplyRelease records the release of an amount at an epoch.
func (as *Allocations) ApplyRelease(beneficiary addr.Address, amount abi.TokenAmount, epoch abi.ChainEpoch) (*Allocation, error) {
	alloc, err := as.MustGet(beneficiary)
	if err != nil {
		return nil, err
	}
	if amount.Sign() < 0 {
		return nil, xerrors.Errorf("negative release %v for %v", amount, beneficiary)
	}
	released := big.Add(alloc.ReleasedAmount, amount)
	if released.GreaterThan(alloc.TotalAmount) {
		return nil, xerrors.Errorf("release of %v for %v would exceed total %v (released %v)",
			amount, beneficiary, alloc.TotalAmount, alloc.ReleasedAmount)
	}
	if epoch < alloc.LastReleasedEpoch {
		return nil, xerrors.Errorf("release at %d before last release %d for %v: %w", epoch, alloc.LastReleasedEpoch, beneficiary, ErrEpochRegression)
	}

	alloc.ReleasedAmount = released
	alloc.LastReleasedEpoch = epoch
	if err := as.Upsert(beneficiary, alloc); err != nil {
		return nil, err
	}
	return alloc, nil
}

// ForEach iterates all allocations.
func (as *Allocations) ForEach(fn func(beneficiary addr.Address, alloc *Allocation) error) error {
	var alloc Allocation
	return as.Map.ForEach(&alloc, func(key string) error {
		beneficiary, err := addr.NewFromBytes([]byte(key))
		if err != nil {
			return xerrors.Errorf("invalid allocation key %x: %w", key, err)
		}
		a := alloc
		return fn(beneficiary, &a)
	})
}
