package states

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	cid "github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	"github.com/filecoin-project/vesting-actors/actors/builtin/account"
	init_ "github.com/filecoin-project/vesting-actors/actors/builtin/init"
	"github.com/filecoin-project/vesting-actors/actors/builtin/token"
	"github.com/filecoin-project/vesting-actors/actors/builtin/vesting"
)

// Within this code, Go errors are not expected, but are often converted to messages so that execution
// can continue to find more errors rather than fail with no insight.
// Only errors thar are particularly troublesome to recover from should propagate as Go errors.
func CheckStateInvariants(tree *Tree, expectedBalanceTotal abi.TokenAmount) (*builtin.MessageAccumulator, error) {
	acc := &builtin.MessageAccumulator{}
	totalBalance := big.Zero()
	actorCodes := make(map[addr.Address]cid.Cid)
	var initSummary *init_.StateSummary
	var accountSummaries []*account.StateSummary
	tokenSummaries := make(map[addr.Address]*token.StateSummary)
	vestingSummaries := make(map[addr.Address]*vesting.StateSummary)

	if err := tree.ForEach(func(key addr.Address, actor *Actor) error {
		acc := acc.WithPrefix("%v ", key) // Intentional shadow
		if key.Protocol() != addr.ID {
			acc.Addf("unexpected address protocol in state tree root: %v", key)
		}
		totalBalance = big.Add(totalBalance, actor.Balance)
		actorCodes[key] = actor.Code

		switch actor.Code {
		case builtin.SystemActorCodeID:

		case builtin.InitActorCodeID:
			var st init_.State
			if err := tree.Store.Get(tree.Store.Context(), actor.Head, &st); err != nil {
				return err
			}
			if summary, msgs, err := init_.CheckStateInvariants(&st, tree.Store); err != nil {
				return err
			} else {
				acc.WithPrefix("init: ").AddAll(msgs)
				initSummary = summary
			}

		case builtin.AccountActorCodeID:
			var st account.State
			if err := tree.Store.Get(tree.Store.Context(), actor.Head, &st); err != nil {
				return err
			}
			summary, msgs := account.CheckStateInvariants(&st, key)
			acc.WithPrefix("account: ").AddAll(msgs)
			accountSummaries = append(accountSummaries, summary)

		case builtin.TokenActorCodeID:
			var st token.State
			if err := tree.Store.Get(tree.Store.Context(), actor.Head, &st); err != nil {
				return err
			}
			if summary, msgs, err := token.CheckStateInvariants(&st, tree.Store); err != nil {
				return err
			} else {
				acc.WithPrefix("token: ").AddAll(msgs)
				tokenSummaries[key] = summary
			}

		case builtin.VestingActorCodeID:
			var st vesting.State
			if err := tree.Store.Get(tree.Store.Context(), actor.Head, &st); err != nil {
				return err
			}
			if summary, msgs, err := vesting.CheckStateInvariants(&st, tree.Store); err != nil {
				return err
			} else {
				acc.WithPrefix("vesting: ").AddAll(msgs)
				vestingSummaries[key] = summary
			}

		default:
			return xerrors.Errorf("unexpected actor code CID %v for address %v", actor.Code, key)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	//
	// Perform cross-actor checks from state summaries here.
	//

	CheckInitAgainstTree(acc, initSummary, actorCodes, accountSummaries)
	CheckVestingAgainstTokens(acc, vestingSummaries, tokenSummaries, actorCodes)

	if !totalBalance.Equals(expectedBalanceTotal) {
		acc.Addf("total native balance is %v, expected %v", totalBalance, expectedBalanceTotal)
	}

	return acc, nil
}

func CheckInitAgainstTree(acc *builtin.MessageAccumulator, initSummary *init_.StateSummary, actors map[addr.Address]cid.Cid, accounts []*account.StateSummary) {
	if initSummary == nil {
		acc.Add("no init actor")
		return
	}
	for pubkey, id := range initSummary.AddrIDs { // nolint:nomaprange
		idAddr, err := addr.NewIDAddress(uint64(id))
		if err != nil {
			acc.Addf("invalid ID %d for %v: %s", id, pubkey, err)
			continue
		}
		_, found := actors[idAddr]
		acc.Require(found, "init maps %v to %v which has no actor", pubkey, idAddr)
	}
	for _, summary := range accounts {
		_, found := initSummary.AddrIDs[summary.PubKeyAddr]
		acc.Require(found, "account key %v is not in the init address map", summary.PubKeyAddr)
	}
}

func CheckVestingAgainstTokens(acc *builtin.MessageAccumulator, vestings map[addr.Address]*vesting.StateSummary,
	tokens map[addr.Address]*token.StateSummary, actors map[addr.Address]cid.Cid) {
	for vestingAddr, summary := range vestings { // nolint:nomaprange
		acc := acc.WithPrefix("vesting %v: ", vestingAddr) // Intentional shadow

		tokenSummary, ok := tokens[summary.TokenContract]
		acc.Require(ok, "token contract %v is not a token actor: %s", summary.TokenContract, builtin.ActorNameByCode(actors[summary.TokenContract]))
		if ok {
			acc.Require(summary.TotalReleased.LessThanEqual(tokenSummary.Supply),
				"released %v exceeds token supply %v", summary.TotalReleased, tokenSummary.Supply)
		}

		_, found := actors[summary.Owner]
		acc.Require(found, "owner %v has no actor", summary.Owner)
		for _, beneficiary := range summary.Beneficiaries {
			_, found := actors[beneficiary]
			acc.Require(found, "beneficiary %v has no actor", beneficiary)
		}
	}
}
