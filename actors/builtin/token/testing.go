package token

import (
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	"github.com/filecoin-project/vesting-actors/actors/util/adt"
)

type StateSummary struct {
	Supply abi.TokenAmount
}

// Checks internal invariants of token state.
func CheckStateInvariants(st *State, store adt.Store) (*StateSummary, *builtin.MessageAccumulator, error) {
	acc := &builtin.MessageAccumulator{}

	acc.Require(st.Supply.Sign() >= 0, "negative supply %v", st.Supply)

	balances, err := adt.AsBalanceTable(store, st.Balances)
	if err != nil {
		return nil, acc, err
	}
	total, err := balances.Total()
	if err != nil {
		return nil, acc, err
	}
	acc.Require(total.Equals(st.Supply), "supply %v, sum of balances %v", st.Supply, total)

	return &StateSummary{Supply: st.Supply}, acc, nil
}
