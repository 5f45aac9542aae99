package vm

import (
	"context"
	"fmt"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/exitcode"
	cid "github.com/ipfs/go-cid"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	init_ "github.com/filecoin-project/vesting-actors/actors/builtin/init"
	"github.com/filecoin-project/vesting-actors/actors/runtime"
	"github.com/filecoin-project/vesting-actors/actors/states"
	"github.com/filecoin-project/vesting-actors/actors/util/adt"
)

// VM holds the state and executes messages over the state.
type VM struct {
	ctx   context.Context
	store adt.Store

	currentEpoch abi.ChainEpoch

	actorImpls  ActorImplLookup
	stateRoot   cid.Cid      // The last committed root.
	actors      *states.Tree // The current (not necessarily committed) root node.
	actorsDirty bool

	emptyObject cid.Cid

	// Count of actors created outside of any message, for deriving their robust addresses.
	createdActors uint64

	logs        []string
	invocations []*Invocation
}

// VM types

type ActorImplLookup map[cid.Cid]runtime.VMActor

type internalMessage struct {
	from   addr.Address
	to     addr.Address
	value  abi.TokenAmount
	method abi.MethodNum
	params interface{}
}

type MessageResult struct {
	Ret  cbor.Marshaler
	Code exitcode.ExitCode
}

// NewVM creates a new runtime for executing messages.
func NewVM(ctx context.Context, actorImpls ActorImplLookup, store adt.Store) *VM {
	actors, err := states.NewTree(store)
	if err != nil {
		panic(err)
	}
	actorRoot, err := actors.Flush()
	if err != nil {
		panic(err)
	}

	emptyObject, err := store.Put(context.TODO(), []struct{}{})
	if err != nil {
		panic(err)
	}

	return &VM{
		ctx:         ctx,
		actorImpls:  actorImpls,
		store:       store,
		actors:      actors,
		stateRoot:   actorRoot,
		actorsDirty: false,
		emptyObject: emptyObject,
	}
}

// WithEpoch returns a VM over the current state at a new epoch.
func (vm *VM) WithEpoch(epoch abi.ChainEpoch) (*VM, error) {
	if _, err := vm.checkpoint(); err != nil {
		return nil, err
	}

	actors, err := states.LoadTree(vm.store, vm.stateRoot)
	if err != nil {
		return nil, err
	}

	return &VM{
		ctx:           vm.ctx,
		actorImpls:    vm.actorImpls,
		store:         vm.store,
		actors:        actors,
		stateRoot:     vm.stateRoot,
		actorsDirty:   false,
		emptyObject:   vm.emptyObject,
		currentEpoch:  epoch,
		createdActors: vm.createdActors,
	}, nil
}

func (vm *VM) rollback(root cid.Cid) error {
	var err error
	vm.actors, err = states.LoadTree(vm.store, root)
	if err != nil {
		return xerrors.Errorf("failed to load node for %s: %w", root, err)
	}

	// reset the root node
	vm.stateRoot = root
	vm.actorsDirty = false
	return nil
}

// GetActor loads the actor at an address of any protocol.
func (vm *VM) GetActor(a addr.Address) (*states.Actor, bool) {
	na, found := vm.NormalizeAddress(a)
	if !found {
		return nil, false
	}
	actor, found, err := vm.actors.GetActor(na)
	if err != nil {
		panic(err)
	}
	return actor, found
}

// setActor sets the the actor to the given value whether it previously existed or not.
//
// This method will not check if the actor previously existed, it will blindly overwrite it.
func (vm *VM) setActor(_ context.Context, key addr.Address, a *states.Actor) error {
	if err := vm.actors.SetActor(key, a); err != nil {
		return xerrors.Errorf("setting actor in state tree failed: %w", err)
	}
	vm.actorsDirty = true
	return nil
}

// setActorState stores the state and updates the addressed actor.
func (vm *VM) setActorState(ctx context.Context, key addr.Address, state cbor.Marshaler) error {
	stateCid, err := vm.store.Put(ctx, state)
	if err != nil {
		return err
	}
	a, found, err := vm.actors.GetActor(key)
	if err != nil {
		return err
	}
	if !found {
		return xerrors.Errorf("actor %v: %w", key, states.ErrActorNotFound)
	}
	a.Head = stateCid
	return vm.setActor(ctx, key, a)
}

func (vm *VM) checkpoint() (cid.Cid, error) {
	// commit the vm state
	root, err := vm.actors.Flush()
	if err != nil {
		return cid.Undef, err
	}
	vm.stateRoot = root
	vm.actorsDirty = false

	return root, nil
}

// NormalizeAddress resolves an address of any protocol to an ID address via the init actor.
func (vm *VM) NormalizeAddress(a addr.Address) (addr.Address, bool) {
	// short-circuit if the address is already an ID address
	if a.Protocol() == addr.ID {
		return a, true
	}

	// resolve the target address via the InitActor, and attempt to load state.
	initActorEntry, found, err := vm.actors.GetActor(builtin.InitActorAddr)
	if err != nil {
		panic(xerrors.Errorf("failed to load init actor: %w", err))
	}
	if !found {
		panic(xerrors.Errorf("no init actor"))
	}

	// get a view into the actor state
	var state init_.State
	if err := vm.store.Get(vm.ctx, initActorEntry.Head, &state); err != nil {
		panic(err)
	}

	idAddr, found, err := state.ResolveAddress(vm.store, a)
	if err != nil {
		panic(err)
	}
	return idAddr, found
}

// ApplyMessage applies the message to the current state.
func (vm *VM) ApplyMessage(from, to addr.Address, value abi.TokenAmount, method abi.MethodNum, params interface{}) (MessageResult, error) {
	// This method does not actually execute the message itself,
	// but rather deals with the pre/post processing of a message.
	// (see: `invocationContext.invoke()` for the dispatch and execution)

	// load actor from global state
	var ok bool
	if from, ok = vm.NormalizeAddress(from); !ok {
		return MessageResult{Code: exitcode.SysErrSenderInvalid}, nil
	}

	fromActor, found, err := vm.actors.GetActor(from)
	if err != nil {
		return MessageResult{}, err
	}
	if !found {
		// Execution error; sender does not exist at time of message execution.
		return MessageResult{Code: exitcode.SysErrSenderInvalid}, nil
	}
	if !fromActor.Code.Equals(builtin.AccountActorCodeID) {
		// Execution error; sender is not an account.
		return MessageResult{Code: exitcode.SysErrSenderInvalid}, nil
	}

	// The call sequence number is bumped whether or not the message succeeds.
	fromActor.CallSeqNum++
	if err := vm.setActor(vm.ctx, from, fromActor); err != nil {
		return MessageResult{}, err
	}

	// checkpoint state
	priorRoot, err := vm.checkpoint()
	if err != nil {
		return MessageResult{}, err
	}

	imsg := internalMessage{
		from:   from,
		to:     to,
		value:  value,
		method: method,
		params: params,
	}

	ctx := newInvocationContext(vm, imsg, fromActor, vm.emptyObject)
	ret, exitCode := ctx.invoke()
	vm.invocations = append(vm.invocations, ctx.invocation(ret, exitCode))

	// Roll back all state if the receipt's exit code is not ok.
	// This is required in addition to rollback within the invocation context since top level messages can fail for
	// more reasons than internal ones. Invocation context still needs its own rollback so actors can recover and
	// proceed from a nested call failure.
	if exitCode != exitcode.Ok {
		if err := vm.rollback(priorRoot); err != nil {
			return MessageResult{}, err
		}
	} else {
		if _, err := vm.checkpoint(); err != nil {
			return MessageResult{}, err
		}
	}

	return MessageResult{Ret: ret.inner, Code: exitCode}, nil
}

// CreateActor installs an actor with the given code and an empty state, and maps a new
// robust address to it. The actor's constructor must then be invoked with a message.
func (vm *VM) CreateActor(code cid.Cid, balance abi.TokenAmount) (idAddr addr.Address, robustAddr addr.Address, err error) {
	if _, ok := vm.actorImpls[code]; !ok {
		return addr.Undef, addr.Undef, xerrors.Errorf("no actor implementation for code %v", code)
	}

	robustAddr, err = addr.NewActorAddress([]byte(fmt.Sprintf("%s/%d", builtin.ActorNameByCode(code), vm.createdActors)))
	if err != nil {
		return addr.Undef, addr.Undef, err
	}
	vm.createdActors++

	idAddr, err = vm.mapAddressToNewID(robustAddr)
	if err != nil {
		return addr.Undef, addr.Undef, err
	}
	err = vm.setActor(vm.ctx, idAddr, &states.Actor{
		Code:    code,
		Head:    vm.emptyObject,
		Balance: balance,
	})
	return idAddr, robustAddr, err
}

func (vm *VM) mapAddressToNewID(a addr.Address) (addr.Address, error) {
	var initState init_.State
	if err := vm.GetState(builtin.InitActorAddr, &initState); err != nil {
		return addr.Undef, err
	}
	idAddr, err := initState.MapAddressToNewID(vm.store, a)
	if err != nil {
		return addr.Undef, err
	}
	if err := vm.setActorState(vm.ctx, builtin.InitActorAddr, &initState); err != nil {
		return addr.Undef, err
	}
	return idAddr, nil
}

func (vm *VM) GetState(a addr.Address, out cbor.Unmarshaler) error {
	act, found := vm.GetActor(a)
	if !found {
		return xerrors.Errorf("actor %v not found", a)
	}
	return vm.store.Get(vm.ctx, act.Head, out)
}

func (vm *VM) GetStateTree() (*states.Tree, error) {
	if _, err := vm.checkpoint(); err != nil {
		return nil, err
	}
	return states.LoadTree(vm.store, vm.stateRoot)
}

// GetTotalActorBalance sums the native balance of every actor.
func (vm *VM) GetTotalActorBalance() (abi.TokenAmount, error) {
	total := big.Zero()
	err := vm.actors.ForEach(func(_ addr.Address, actor *states.Actor) error {
		total = big.Add(total, actor.Balance)
		return nil
	})
	return total, err
}

func (vm *VM) Store() adt.Store {
	return vm.store
}

func (vm *VM) GetEpoch() abi.ChainEpoch {
	return vm.currentEpoch
}

func (vm *VM) Invocations() []*Invocation {
	return vm.invocations
}

func (vm *VM) LastInvocation() *Invocation {
	return vm.invocations[len(vm.invocations)-1]
}

// Logs returns every line logged by actors in messages applied to this VM.
func (vm *VM) Logs() []string {
	return vm.logs
}

// transfer debits money from one account and credits it to another.
// avoid calling this method with a zero amount else it will perform unnecessary actor loading.
//
// WARNING: this method will panic if the the amount is negative, accounts dont exist, or have inssuficient funds.
func (vm *VM) transfer(debitFrom addr.Address, creditTo addr.Address, amount abi.TokenAmount) (*states.Actor, *states.Actor) {
	// allow only for positive amounts
	if amount.LessThan(abi.NewTokenAmount(0)) {
		panic("unreachable: negative funds transfer not allowed")
	}

	// retrieve debit account
	fromActor, found, err := vm.actors.GetActor(debitFrom)
	if err != nil {
		panic(err)
	}
	if !found {
		panic(fmt.Errorf("unreachable: debit account %v not found", debitFrom))
	}

	// check that account has enough balance for transfer
	if fromActor.Balance.LessThan(amount) {
		panic("unreachable: insufficient balance on debit account")
	}

	// debit funds
	fromActor.Balance = big.Sub(fromActor.Balance, amount)
	if err := vm.setActor(vm.ctx, debitFrom, fromActor); err != nil {
		panic(err)
	}

	// retrieve credit account
	toActor, found, err := vm.actors.GetActor(creditTo)
	if err != nil {
		panic(err)
	}
	if !found {
		panic(fmt.Errorf("unreachable: credit account %v not found", creditTo))
	}

	// credit funds
	toActor.Balance = big.Add(toActor.Balance, amount)
	if err := vm.setActor(vm.ctx, creditTo, toActor); err != nil {
		panic(err)
	}
	return toActor, fromActor
}

func (vm *VM) getActorImpl(code cid.Cid) (runtime.VMActor, bool) {
	actorImpl, ok := vm.actorImpls[code]
	return actorImpl, ok
}

type abort struct {
	code exitcode.ExitCode
	msg  string
}

func (a abort) String() string {
	return fmt.Sprintf("abort(%v): %s", a.code, a.msg)
}

//
// implement runtime.Message for internalMessage
//

var _ runtime.Message = (*internalMessage)(nil)

// ValueReceived implements runtime.MessageInfo.
func (msg internalMessage) ValueReceived() abi.TokenAmount {
	return msg.value
}

// Caller implements runtime.MessageInfo.
func (msg internalMessage) Caller() addr.Address {
	return msg.from
}

// Receiver implements runtime.MessageInfo.
func (msg internalMessage) Receiver() addr.Address {
	return msg.to
}
