package states

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	cid "github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	init_ "github.com/filecoin-project/vesting-actors/actors/builtin/init"
	"github.com/filecoin-project/vesting-actors/actors/util/adt"
)

var ErrActorNotFound = xerrors.New("actor not found")

// Value type for a map of addresses to actors.
type Actor struct {
	Code       cid.Cid
	Head       cid.Cid
	CallSeqNum uint64
	Balance    big.Int
}

// A specialization of a map of ID-addresses to actor heads.
type Tree struct {
	Map   *adt.Map
	Store adt.Store
}

// Initializes a new, empty state tree backed by a store.
func NewTree(store adt.Store) (*Tree, error) {
	emptyMap, err := adt.MakeEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, err
	}
	return &Tree{
		Map:   emptyMap,
		Store: store,
	}, nil
}

// Loads a tree from a root CID and store.
func LoadTree(s adt.Store, r cid.Cid) (*Tree, error) {
	m, err := adt.AsMap(s, r, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, err
	}
	return &Tree{
		Map:   m,
		Store: s,
	}, nil
}

// Writes the tree root node to the store, and returns its CID.
func (t *Tree) Flush() (cid.Cid, error) {
	return t.Map.Root()
}

// Loads the actor associated with an address, which must be an ID address.
// Returns whether the actor was found.
func (t *Tree) GetActor(a addr.Address) (*Actor, bool, error) {
	if a.Protocol() != addr.ID {
		return nil, false, xerrors.Errorf("non-ID address %v invalid as actor key", a)
	}
	var actor Actor
	found, err := t.Map.Get(abi.AddrKey(a), &actor)
	return &actor, found, err
}

// Sets the actor associated with an address, which must be an ID address.
func (t *Tree) SetActor(a addr.Address, actor *Actor) error {
	if a.Protocol() != addr.ID {
		return xerrors.Errorf("non-ID address %v invalid as actor key", a)
	}
	return t.Map.Put(abi.AddrKey(a), actor)
}

// Resolves an address of any protocol to an ID address via the init actor's table.
func (t *Tree) LookupID(a addr.Address) (addr.Address, error) {
	if a.Protocol() == addr.ID {
		return a, nil
	}
	act, found, err := t.GetActor(builtin.InitActorAddr)
	if err != nil {
		return addr.Undef, xerrors.Errorf("getting init actor: %w", err)
	}
	if !found {
		return addr.Undef, xerrors.Errorf("no init actor: %w", ErrActorNotFound)
	}

	var ias init_.State
	if err := t.Store.Get(t.Store.Context(), act.Head, &ias); err != nil {
		return addr.Undef, xerrors.Errorf("loading init actor state: %w", err)
	}

	idAddr, found, err := ias.ResolveAddress(t.Store, a)
	if err == nil && !found {
		err = ErrActorNotFound
	}
	if err != nil {
		return addr.Undef, xerrors.Errorf("resolve address %s: %w", a, err)
	}
	return idAddr, nil
}

// Traverses all entries in the tree.
func (t *Tree) ForEach(fn func(addr addr.Address, actor *Actor) error) error {
	var val Actor
	return t.Map.ForEach(&val, func(key string) error {
		a, err := addr.NewFromBytes([]byte(key))
		if err != nil {
			return err
		}
		return fn(a, &val)
	})
}
