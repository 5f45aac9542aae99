package vm

import (
	"bytes"
	"context"
	"fmt"
	"reflect"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/exitcode"
	rtt "github.com/filecoin-project/go-state-types/rt"
	cid "github.com/ipfs/go-cid"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	"github.com/filecoin-project/vesting-actors/actors/runtime"
	"github.com/filecoin-project/vesting-actors/actors/states"
)

var _ runtime.Runtime = (*invocationContext)(nil)
var _ runtime.StateHandle = (*invocationContext)(nil)

// Context for an individual message invocation, including inter-actor sends.
type invocationContext struct {
	vm               *VM
	msg              internalMessage
	fromActor        *states.Actor
	toActor          *states.Actor
	emptyObject      cid.Cid
	allowSideEffects bool
	callerValidated  bool
	subInvocations   []*Invocation
}

// Invocation records a message dispatched by the VM, with the messages it sent in turn.
type Invocation struct {
	Msg            *internalMessage
	Exitcode       exitcode.ExitCode
	Ret            cbor.Marshaler
	SubInvocations []*Invocation
}

type returnWrapper struct {
	inner cbor.Marshaler
}

func (r returnWrapper) Into(out cbor.Unmarshaler) error {
	if r.inner == nil || reflect.ValueOf(r.inner).IsNil() {
		return fmt.Errorf("failed to unmarshal nil return (did you mean to pass nil?)")
	}
	b := bytes.Buffer{}
	if err := r.inner.MarshalCBOR(&b); err != nil {
		return err
	}
	return out.UnmarshalCBOR(&b)
}

func newInvocationContext(vm *VM, msg internalMessage, fromActor *states.Actor, emptyObject cid.Cid) *invocationContext {
	return &invocationContext{
		vm:               vm,
		msg:              msg,
		fromActor:        fromActor,
		toActor:          nil,
		emptyObject:      emptyObject,
		allowSideEffects: true,
		callerValidated:  false,
	}
}

func (ic *invocationContext) invocation(ret returnWrapper, code exitcode.ExitCode) *Invocation {
	msg := ic.msg
	return &Invocation{
		Msg:            &msg,
		Exitcode:       code,
		Ret:            ret.inner,
		SubInvocations: ic.subInvocations,
	}
}

var typeOfRuntimeInterface = reflect.TypeOf((*runtime.Runtime)(nil)).Elem()
var typeOfCborUnmarshaler = reflect.TypeOf((*cbor.Unmarshaler)(nil)).Elem()

// invoke processes a message: it resolves (and if need be creates) the receiver, transfers value,
// and dispatches the method. Aborts are recovered into an exit code.
func (ic *invocationContext) invoke() (ret returnWrapper, errcode exitcode.ExitCode) {
	defer func() {
		if r := recover(); r != nil {
			a, ok := r.(abort)
			if !ok {
				panic(r)
			}
			ic.vm.logs = append(ic.vm.logs, a.String())
			ret = returnWrapper{}
			errcode = a.code
		}
	}()

	// 1. load the receiver, creating an account actor for an unknown pubkey address
	ic.msg.to, ic.toActor = ic.resolveTarget(ic.msg.to)

	// 2. transfer funds carried by the msg
	if !ic.msg.value.NilOrZero() {
		if ic.msg.value.LessThan(big.Zero()) {
			ic.Abortf(exitcode.SysErrForbidden, "attempt to transfer negative value %s from %s to %s",
				ic.msg.value, ic.msg.from, ic.msg.to)
		}
		if ic.fromActor.Balance.LessThan(ic.msg.value) {
			ic.Abortf(exitcode.SysErrInsufficientFunds, "sender %s insufficient balance %s to transfer %s to %s",
				ic.msg.from, ic.fromActor.Balance, ic.msg.value, ic.msg.to)
		}
		ic.toActor, ic.fromActor = ic.vm.transfer(ic.msg.from, ic.msg.to, ic.msg.value)
	}

	// 3. a plain value transfer invokes no code
	if ic.msg.method == builtin.MethodSend {
		return returnWrapper{}, exitcode.Ok
	}

	// 4. dispatch
	actorImpl, ok := ic.vm.getActorImpl(ic.toActor.Code)
	if !ok {
		ic.Abortf(exitcode.SysErrInvalidReceiver, "actor implementation not found for code %v", ic.toActor.Code)
	}
	exports := actorImpl.Exports()
	if uint64(len(exports)) <= uint64(ic.msg.method) || exports[ic.msg.method] == nil {
		ic.Abortf(exitcode.SysErrInvalidMethod, "no method %d on %s actor", ic.msg.method, builtin.ActorNameByCode(ic.toActor.Code))
	}
	method := reflect.ValueOf(exports[ic.msg.method])
	params := ic.decodeParams(method.Type())
	out := method.Call([]reflect.Value{reflect.ValueOf(ic), params})

	if !ic.callerValidated {
		ic.Abortf(exitcode.SysErrorIllegalActor, "caller validation not performed by %s method %d",
			builtin.ActorNameByCode(ic.toActor.Code), ic.msg.method)
	}

	result, _ := out[0].Interface().(cbor.Marshaler)
	return returnWrapper{result}, exitcode.Ok
}

// decodeParams round-trips the message params through their CBOR encoding into the method's parameter type.
func (ic *invocationContext) decodeParams(methodType reflect.Type) reflect.Value {
	if methodType.NumIn() != 2 || methodType.In(0) != typeOfRuntimeInterface {
		ic.Abortf(exitcode.SysErrInvalidMethod, "method has invalid signature %v", methodType)
	}
	paramType := methodType.In(1)
	if paramType.Kind() != reflect.Ptr || !paramType.Implements(typeOfCborUnmarshaler) {
		ic.Abortf(exitcode.SysErrInvalidMethod, "method parameter type %v is not unmarshalable", paramType)
	}

	decoded := reflect.New(paramType.Elem())
	if ic.msg.params == nil {
		return decoded
	}
	// EmptyValue refuses to marshal; it carries no params either way.
	if _, ok := ic.msg.params.(*abi.EmptyValue); ok {
		return decoded
	}
	marshaler, ok := ic.msg.params.(cbor.Marshaler)
	if !ok {
		ic.Abortf(exitcode.SysErrorIllegalArgument, "params %T are not marshalable", ic.msg.params)
	}
	buf := bytes.Buffer{}
	if err := marshaler.MarshalCBOR(&buf); err != nil {
		ic.Abortf(exitcode.SysErrorIllegalArgument, "failed to marshal params: %s", err)
	}
	if buf.Len() == 0 {
		return decoded
	}
	if err := decoded.Interface().(cbor.Unmarshaler).UnmarshalCBOR(&buf); err != nil {
		ic.Abortf(exitcode.ErrSerialization, "failed to decode params into %v: %s", paramType, err)
	}
	return decoded
}

// resolveTarget loads the actor at an address, implicitly creating an account actor for an
// unknown BLS or SECP256K1 address.
func (ic *invocationContext) resolveTarget(target addr.Address) (addr.Address, *states.Actor) {
	if idAddr, found := ic.vm.NormalizeAddress(target); found {
		actor, found, err := ic.vm.actors.GetActor(idAddr)
		if err != nil {
			panic(err)
		}
		if !found {
			ic.Abortf(exitcode.SysErrInvalidReceiver, "actor at address %s not found", target)
		}
		return idAddr, actor
	}

	if target.Protocol() != addr.SECP256K1 && target.Protocol() != addr.BLS {
		// Don't implicitly create an account actor for an address without an associated key.
		ic.Abortf(exitcode.SysErrInvalidReceiver, "cannot create account for address type %v", target.Protocol())
	}

	idAddr, err := ic.vm.mapAddressToNewID(target)
	if err != nil {
		panic(err)
	}
	if err := ic.vm.setActor(ic.vm.ctx, idAddr, &states.Actor{
		Code:    builtin.AccountActorCodeID,
		Head:    ic.emptyObject,
		Balance: big.Zero(),
	}); err != nil {
		panic(err)
	}

	// call the account constructor as the system actor
	systemActor, found, err := ic.vm.actors.GetActor(builtin.SystemActorAddr)
	if err != nil {
		panic(err)
	}
	if !found {
		panic("no system actor")
	}
	newMsg := internalMessage{
		from:   builtin.SystemActorAddr,
		to:     idAddr,
		value:  big.Zero(),
		method: builtin.MethodsAccount.Constructor,
		params: &target,
	}
	newCtx := newInvocationContext(ic.vm, newMsg, systemActor, ic.emptyObject)
	ret, code := newCtx.invoke()
	ic.subInvocations = append(ic.subInvocations, newCtx.invocation(ret, code))
	if !code.IsSuccess() {
		ic.Abortf(code, "failed to construct account actor for %s", target)
	}

	actor, _, err := ic.vm.actors.GetActor(idAddr)
	if err != nil {
		panic(err)
	}
	return idAddr, actor
}

///// Implementation of the runtime API /////

func (ic *invocationContext) Message() runtime.Message {
	return ic.msg
}

func (ic *invocationContext) CurrEpoch() abi.ChainEpoch {
	return ic.vm.currentEpoch
}

func (ic *invocationContext) ValidateImmediateCallerAcceptAny() {
	ic.assertf(!ic.callerValidated, "caller has been double validated")
	ic.callerValidated = true
}

func (ic *invocationContext) ValidateImmediateCallerIs(addrs ...addr.Address) {
	ic.assertf(!ic.callerValidated, "caller has been double validated")
	ic.callerValidated = true
	for _, a := range addrs {
		if a == ic.msg.from {
			return
		}
	}
	ic.Abortf(exitcode.SysErrForbidden, "caller %s is not one of supported %v", ic.msg.from, addrs)
}

func (ic *invocationContext) ValidateImmediateCallerType(types ...cid.Cid) {
	ic.assertf(!ic.callerValidated, "caller has been double validated")
	ic.callerValidated = true
	for _, t := range types {
		if t.Equals(ic.fromActor.Code) {
			return
		}
	}
	ic.Abortf(exitcode.SysErrForbidden, "caller type %s is not one of supported %v",
		builtin.ActorNameByCode(ic.fromActor.Code), types)
}

func (ic *invocationContext) CurrentBalance() abi.TokenAmount {
	// load balance
	act, found, err := ic.vm.actors.GetActor(ic.msg.to)
	if err != nil {
		panic(err)
	}
	if !found {
		ic.Abortf(exitcode.SysErrorIllegalActor, "cannot find actor %s", ic.msg.to)
	}
	return act.Balance
}

func (ic *invocationContext) ResolveAddress(address addr.Address) (addr.Address, bool) {
	return ic.vm.NormalizeAddress(address)
}

func (ic *invocationContext) GetActorCodeCID(a addr.Address) (ret cid.Cid, ok bool) {
	entry, found := ic.vm.GetActor(a)
	if !found {
		return cid.Undef, false
	}
	return entry.Code, true
}

func (ic *invocationContext) State() runtime.StateHandle {
	return ic
}

func (ic *invocationContext) Send(toAddr addr.Address, methodNum abi.MethodNum, params cbor.Marshaler, value abi.TokenAmount, out cbor.Er) exitcode.ExitCode {
	// check if side-effects are allowed
	if !ic.allowSideEffects {
		ic.Abortf(exitcode.SysErrorIllegalActor, "Calling Send() is not allowed during side-effect lock")
	}
	from := ic.msg.to
	fromActor, found, err := ic.vm.actors.GetActor(from)
	if err != nil {
		panic(err)
	}
	if !found {
		ic.Abortf(exitcode.SysErrorIllegalActor, "sender %s not found", from)
	}

	newMsg := internalMessage{
		from:   from,
		to:     toAddr,
		value:  value,
		method: methodNum,
		params: params,
	}

	// checkpoint so the callee's changes can be discarded if it fails
	priorRoot, err := ic.vm.checkpoint()
	if err != nil {
		panic(err)
	}

	newCtx := newInvocationContext(ic.vm, newMsg, fromActor, ic.emptyObject)
	ret, code := newCtx.invoke()
	ic.subInvocations = append(ic.subInvocations, newCtx.invocation(ret, code))

	if !code.IsSuccess() {
		if err := ic.vm.rollback(priorRoot); err != nil {
			panic(err)
		}
		return code
	}

	if out != nil {
		if err := ret.Into(out); err != nil {
			ic.Abortf(exitcode.ErrSerialization, "failed to unmarshal return value: %s", err)
		}
	}
	return code
}

func (ic *invocationContext) Abortf(errExitCode exitcode.ExitCode, msg string, args ...interface{}) {
	panic(abort{errExitCode, fmt.Sprintf(msg, args...)})
}

func (ic *invocationContext) Context() context.Context {
	return ic.vm.ctx
}

func (ic *invocationContext) StartSpan(_ string) func() {
	return func() {}
}

func (ic *invocationContext) Log(level rtt.LogLevel, msg string, args ...interface{}) {
	ic.vm.logs = append(ic.vm.logs, fmt.Sprintf(msg, args...))
}

func (ic *invocationContext) assertf(predicate bool, msg string, args ...interface{}) {
	if !predicate {
		ic.Abortf(exitcode.SysErrorIllegalActor, msg, args...)
	}
}

///// Store implementation /////

func (ic *invocationContext) StoreGet(c cid.Cid, o cbor.Unmarshaler) bool {
	// assume all errors are not found errors (bad assumption, but ok for testing)
	return ic.vm.store.Get(ic.vm.ctx, c, o) == nil
}

func (ic *invocationContext) StorePut(x cbor.Marshaler) cid.Cid {
	c, err := ic.vm.store.Put(ic.vm.ctx, x)
	if err != nil {
		ic.Abortf(exitcode.ErrSerialization, "failed to put object in store: %s", err)
	}
	return c
}

///// State handle implementation /////

func (ic *invocationContext) Create(obj cbor.Marshaler) {
	actor := ic.loadActor()
	if !actor.Head.Equals(ic.emptyObject) {
		ic.Abortf(exitcode.SysErrorIllegalActor, "failed to construct actor state: already initialized")
	}
	ic.replace(obj)
}

func (ic *invocationContext) Readonly(obj cbor.Unmarshaler) {
	actor := ic.loadActor()
	if !ic.StoreGet(actor.Head, obj) {
		ic.Abortf(exitcode.SysErrorIllegalArgument, "failed to load state for actor %s", ic.msg.to)
	}
}

func (ic *invocationContext) Transaction(obj cbor.Er, f func()) {
	if obj == nil {
		ic.Abortf(exitcode.SysErrorIllegalActor, "Must not pass nil to Transaction()")
	}
	if !ic.allowSideEffects {
		ic.Abortf(exitcode.SysErrorIllegalActor, "nested transaction")
	}

	ic.Readonly(obj)
	ic.allowSideEffects = false
	f()
	ic.allowSideEffects = true

	ic.replace(obj)
}

func (ic *invocationContext) loadActor() *states.Actor {
	actor, found, err := ic.vm.actors.GetActor(ic.msg.to)
	if err != nil {
		panic(err)
	}
	if !found {
		ic.Abortf(exitcode.SysErrorIllegalActor, "failed to find actor %s for state", ic.msg.to)
	}
	return actor
}

func (ic *invocationContext) replace(obj cbor.Marshaler) cid.Cid {
	actor := ic.loadActor()
	c := ic.StorePut(obj)
	actor.Head = c
	if err := ic.vm.setActor(ic.vm.ctx, ic.msg.to, actor); err != nil {
		panic(err)
	}
	ic.toActor = actor
	return c
}
