package vesting

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	"github.com/filecoin-project/vesting-actors/actors/util/adt"
)

type StateSummary struct {
	TokenContract   addr.Address
	Owner           addr.Address
	Beneficiaries   []addr.Address
	AllocationCount int
	ReleaseCount    uint64
	TotalAllocated  abi.TokenAmount
	TotalReleased   abi.TokenAmount
}

// Checks internal invariants of vesting state.
func CheckStateInvariants(st *State, store adt.Store) (*StateSummary, *builtin.MessageAccumulator, error) {
	acc := &builtin.MessageAccumulator{}

	acc.Require(st.LockinDuration >= 0, "negative lock-in duration %d", st.LockinDuration)
	acc.Require(st.UnlockDuration >= 0, "negative unlock duration %d", st.UnlockDuration)
	acc.Require(st.PerEpochReleaseAmount.Sign() >= 0, "negative per-epoch release amount %v", st.PerEpochReleaseAmount)
	if !st.IsFixedRate() {
		acc.Require(st.PerEpochReleaseAmount.IsZero(), "per-epoch release amount %v set with unlock duration %d",
			st.PerEpochReleaseAmount, st.UnlockDuration)
	}

	allocations, err := LoadAllocations(store, st.Allocations)
	if err != nil {
		return nil, acc, err
	}

	acc.Require(st.TokenContract.Protocol() == addr.ID, "token contract %v is not an ID address", st.TokenContract)
	acc.Require(st.Owner.Protocol() == addr.ID, "owner %v is not an ID address", st.Owner)

	count := 0
	var beneficiaries []addr.Address
	allocated := big.Zero()
	err = allocations.ForEach(func(beneficiary addr.Address, a *Allocation) error {
		count++
		beneficiaries = append(beneficiaries, beneficiary)
		allocated = big.Add(allocated, a.TotalAmount)
		aAcc := acc.WithPrefix("allocation %v: ", beneficiary)

		aAcc.Require(beneficiary.Protocol() == addr.ID, "beneficiary is not an ID address")
		aAcc.Require(a.TotalAmount.Sign() > 0, "non-positive total %v", a.TotalAmount)
		aAcc.Require(a.ReleasedAmount.Sign() >= 0, "negative released %v", a.ReleasedAmount)
		aAcc.Require(a.ReleasedAmount.LessThanEqual(a.TotalAmount), "released %v exceeds total %v", a.ReleasedAmount, a.TotalAmount)
		aAcc.Require(a.LastReleasedEpoch >= a.StartEpoch+st.LockinDuration,
			"last release %d before end of lock-in %d", a.LastReleasedEpoch, a.StartEpoch+st.LockinDuration)
		if st.IsFixedRate() {
			aAcc.Require(a.PerEpochReleaseAmount.IsZero(), "fixed-rate allocation carries rate %v", a.PerEpochReleaseAmount)
		} else {
			expected := big.Div(a.TotalAmount, big.NewInt(int64(st.UnlockDuration)))
			aAcc.Require(a.PerEpochReleaseAmount.Equals(expected), "rate %v, expected %v", a.PerEpochReleaseAmount, expected)
			aAcc.Require(a.PerEpochReleaseAmount.Sign() > 0, "zero rate")
		}
		return nil
	})
	if err != nil {
		return nil, acc, err
	}
	acc.Require(allocated.Equals(st.TotalAllocated), "total allocated %v, sum of allocations %v", st.TotalAllocated, allocated)

	releases, err := adt.AsArray(store, st.Releases, builtin.DefaultAmtBitwidth)
	if err != nil {
		return nil, acc, err
	}
	released := big.Zero()
	var rec ReleaseRecord
	err = releases.ForEach(&rec, func(i int64) error {
		acc.Require(rec.Amount.Sign() > 0, "release %d has non-positive amount %v", i, rec.Amount)
		released = big.Add(released, rec.Amount)
		return nil
	})
	if err != nil {
		return nil, acc, err
	}
	acc.Require(released.Equals(st.TotalReleased), "total released %v, sum of journal %v", st.TotalReleased, released)

	return &StateSummary{
		TokenContract:   st.TokenContract,
		Owner:           st.Owner,
		Beneficiaries:   beneficiaries,
		AllocationCount: count,
		ReleaseCount:    releases.Length(),
		TotalAllocated:  st.TotalAllocated,
		TotalReleased:   st.TotalReleased,
	}, acc, nil
}
