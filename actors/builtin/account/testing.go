package account

import (
	addr "github.com/filecoin-project/go-address"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
)

type StateSummary struct {
	PubKeyAddr addr.Address
}

// Checks internal invariants of account state.
func CheckStateInvariants(st *State, idAddr addr.Address) (*StateSummary, *builtin.MessageAccumulator) {
	acc := &builtin.MessageAccumulator{}
	acc.Require(idAddr.Protocol() == addr.ID, "account %v must be keyed by an ID address", idAddr)
	acc.Require(
		st.Address.Protocol() == addr.BLS || st.Address.Protocol() == addr.SECP256K1,
		"actor address %v must be BLS or SECP256K1 protocol", st.Address)

	return &StateSummary{
		PubKeyAddr: st.Address,
	}, acc
}
