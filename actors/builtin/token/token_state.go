package token

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	cid "github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/vesting-actors/actors/util/adt"
)

// State of a single fungible token ledger.
type State struct {
	// The only address permitted to create new tokens.
	Minter addr.Address
	// Total tokens in existence.
	Supply abi.TokenAmount

	Balances cid.Cid // BalanceTable (HAMT[addr.Address]TokenAmount)
}

var ErrInsufficientBalance = xerrors.New("insufficient balance")

func ConstructState(store adt.Store, minter addr.Address) (*State, error) {
	emptyBalanceTableCid, err := adt.StoreEmptyMap(store, adt.BalanceTableBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty balance table: %w", err)
	}
	return &State{
		Minter:   minter,
		Supply:   big.Zero(),
		Balances: emptyBalanceTableCid,
	}, nil
}

func (st *State) Mint(store adt.Store, to addr.Address, amount abi.TokenAmount) error {
	if amount.Sign() <= 0 {
		return xerrors.Errorf("mint amount %v must be positive", amount)
	}
	return st.mutateBalances(store, func(balances *adt.BalanceTable) error {
		if err := balances.Add(to, amount); err != nil {
			return xerrors.Errorf("failed to credit %v: %w", to, err)
		}
		st.Supply = big.Add(st.Supply, amount)
		return nil
	})
}

func (st *State) Transfer(store adt.Store, from, to addr.Address, amount abi.TokenAmount) error {
	if amount.Sign() < 0 {
		return xerrors.Errorf("negative transfer amount %v", amount)
	}
	return st.mutateBalances(store, func(balances *adt.BalanceTable) error {
		balance, err := balances.Get(from)
		if err != nil {
			return xerrors.Errorf("failed to get balance of %v: %w", from, err)
		}
		if balance.LessThan(amount) {
			return xerrors.Errorf("transfer of %v from %v with balance %v: %w", amount, from, balance, ErrInsufficientBalance)
		}
		if err := balances.MustSubtract(from, amount); err != nil {
			return err
		}
		return balances.Add(to, amount)
	})
}

func (st *State) BalanceOf(store adt.Store, who addr.Address) (abi.TokenAmount, error) {
	balances, err := adt.AsBalanceTable(store, st.Balances)
	if err != nil {
		return big.Zero(), xerrors.Errorf("failed to load balances: %w", err)
	}
	return balances.Get(who)
}

func (st *State) mutateBalances(store adt.Store, f func(balances *adt.BalanceTable) error) error {
	balances, err := adt.AsBalanceTable(store, st.Balances)
	if err != nil {
		return xerrors.Errorf("failed to load balances: %w", err)
	}
	if err := f(balances); err != nil {
		return err
	}
	if st.Balances, err = balances.Root(); err != nil {
		return xerrors.Errorf("failed to flush balances: %w", err)
	}
	return nil
}
