package vm

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/exitcode"
	cid "github.com/ipfs/go-cid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	"github.com/filecoin-project/vesting-actors/actors/builtin/account"
	"github.com/filecoin-project/vesting-actors/actors/builtin/exported"
	init_ "github.com/filecoin-project/vesting-actors/actors/builtin/init"
	"github.com/filecoin-project/vesting-actors/actors/states"
	"github.com/filecoin-project/vesting-actors/support/ipld"
	tutil "github.com/filecoin-project/vesting-actors/support/testing"
)

var FIL = big.NewInt(1e18)

const NetworkName = "vesting-scenarios"

//
// Genesis like setup
//

// Creates a new VM and constructs the system and init singletons.
func NewVMWithSingletons(ctx context.Context, t testing.TB) *VM {
	store := ipld.NewADTStore(ctx)

	lookup := ActorImplLookup{}
	for _, ba := range exported.BuiltinActors() {
		lookup[ba.Code()] = ba
	}

	vm := NewVM(ctx, lookup, store)

	constructSingleton(t, vm, builtin.SystemActorCodeID, builtin.SystemActorAddr, nil)
	constructSingleton(t, vm, builtin.InitActorCodeID, builtin.InitActorAddr, &init_.ConstructorParams{NetworkName: NetworkName})

	_, err := vm.checkpoint()
	require.NoError(t, err)

	return vm
}

// Creates n account actors in the VM with the given balance
func CreateAccounts(ctx context.Context, t testing.TB, vm *VM, n int, balance abi.TokenAmount, seed int64) []addr.Address {
	pubAddrs := tutil.NewBLSAddrs(t, n, seed)
	for _, pubAddr := range pubAddrs {
		idAddr, err := vm.mapAddressToNewID(pubAddr)
		require.NoError(t, err)
		initializeActor(ctx, t, vm, &account.State{Address: pubAddr}, builtin.AccountActorCodeID, idAddr, balance)
	}

	_, err := vm.checkpoint()
	require.NoError(t, err)
	return pubAddrs
}

// Installs an actor with empty state and invokes its constructor from a sender account.
// Returns the new actor's ID address.
func CreateActor(t testing.TB, vm *VM, from addr.Address, code cid.Cid, params cbor.Marshaler) addr.Address {
	idAddr, _, err := vm.CreateActor(code, big.Zero())
	require.NoError(t, err)
	ApplyOk(t, vm, from, idAddr, big.Zero(), builtin.MethodConstructor, params)
	return idAddr
}

// Applies a message which must succeed, returning its result.
func ApplyOk(t testing.TB, v *VM, from, to addr.Address, value abi.TokenAmount, method abi.MethodNum, params interface{}) cbor.Marshaler {
	return ApplyCode(t, v, from, to, value, method, params, exitcode.Ok)
}

// Applies a message which must exit with a code, returning its result.
func ApplyCode(t testing.TB, v *VM, from, to addr.Address, value abi.TokenAmount, method abi.MethodNum, params interface{}, code exitcode.ExitCode) cbor.Marshaler {
	result, err := v.ApplyMessage(from, to, value, method, params)
	require.NoError(t, err)
	require.Equal(t, code, result.Code, "unexpected exit code")
	return result.Ret
}

// Checks state invariants across all actors, given the total native balance expected.
func CheckStateInvariants(t testing.TB, v *VM, expectedBalanceTotal abi.TokenAmount) {
	tree, err := v.GetStateTree()
	require.NoError(t, err)
	msgs, err := states.CheckStateInvariants(tree, expectedBalanceTotal)
	require.NoError(t, err)
	assert.True(t, msgs.IsEmpty(), "%v", msgs.Messages())
}

//
// Invocation expectations
//

func ExpectObject(v cbor.Marshaler) *objectExpectation {
	return &objectExpectation{v}
}

// distinguishes a non-expectation from an expectation of nil
type objectExpectation struct {
	val cbor.Marshaler
}

func ExpectAttoFil(amount big.Int) *big.Int                    { return &amount }
func ExpectAddress(a addr.Address) *addr.Address               { return &a }
func ExpectExitCode(code exitcode.ExitCode) *exitcode.ExitCode { return &code }

// match by cbor encoding to avoid inconsistencies in internal representations of effectively equal objects
func (oe objectExpectation) matches(obj interface{}) bool {
	if oe.val == nil || obj == nil {
		return oe.val == nil && obj == nil
	}

	paramBuf1 := new(bytes.Buffer)
	oe.val.MarshalCBOR(paramBuf1) // nolint: errcheck
	marshaller, ok := obj.(cbor.Marshaler)
	if !ok {
		return false
	}
	paramBuf2 := new(bytes.Buffer)
	if marshaller != nil {
		marshaller.MarshalCBOR(paramBuf2) // nolint: errcheck
	}
	return bytes.Equal(paramBuf1.Bytes(), paramBuf2.Bytes())
}

type ExpectInvocation struct {
	To       addr.Address
	Method   abi.MethodNum
	Exitcode exitcode.ExitCode

	From           *addr.Address
	Value          *abi.TokenAmount
	Params         *objectExpectation
	Ret            *objectExpectation
	SubInvocations []ExpectInvocation
}

func (ei ExpectInvocation) Matches(t testing.TB, invocations *Invocation) {
	ei.matches(t, "", invocations)
}

func (ei ExpectInvocation) matches(t testing.TB, breadcrumb string, invocation *Invocation) {
	identifier := fmt.Sprintf("%s[%s:%d]", breadcrumb, invocation.Msg.to, invocation.Msg.method)

	// mismatch of to or method probably indicates skipped message or messages out of order. halt.
	require.Equal(t, ei.To, invocation.Msg.to, "%s unexpected `to` address", identifier)
	require.Equal(t, ei.Method, invocation.Msg.method, "%s unexpected method", identifier)

	// other expectations are optional
	if ei.From != nil {
		assert.Equal(t, *ei.From, invocation.Msg.from, "%s unexpected from address", identifier)
	}
	if ei.Value != nil {
		assert.Equal(t, ei.Value.String(), invocation.Msg.value.String(), "%s unexpected value", identifier)
	}
	if ei.Params != nil {
		assert.True(t, ei.Params.matches(invocation.Msg.params), "%s params aren't equal (%v != %v)", identifier, ei.Params.val, invocation.Msg.params)
	}
	if ei.SubInvocations != nil {
		for i, invk := range invocation.SubInvocations {
			subidentifier := fmt.Sprintf("%s%d:", identifier, i)
			require.Greater(t, len(ei.SubInvocations), i, "%s unexpected subinvocation [%s:%d]", subidentifier, invk.Msg.to, invk.Msg.method)
			ei.SubInvocations[i].matches(t, subidentifier, invk)
		}
		missingInvocations := len(ei.SubInvocations) - len(invocation.SubInvocations)
		if missingInvocations > 0 {
			missingIndex := len(invocation.SubInvocations)
			missingExpect := ei.SubInvocations[missingIndex]
			require.Failf(t, "missing invocation", "%s%d: expected invocation [%s:%d]", identifier, missingIndex, missingExpect.To, missingExpect.Method)
		}
	}

	// expect results
	assert.Equal(t, ei.Exitcode, invocation.Exitcode, "%s unexpected exitcode", identifier)
	if ei.Ret != nil {
		assert.True(t, ei.Ret.matches(invocation.Ret), "%s unexpected return value (%v != %v)", identifier, ei.Ret, invocation.Ret)
	}
}

//
//  internal stuff
//

func constructSingleton(t testing.TB, vm *VM, code cid.Cid, a addr.Address, params cbor.Marshaler) {
	err := vm.setActor(vm.ctx, a, &states.Actor{
		Code:    code,
		Head:    vm.emptyObject,
		Balance: big.Zero(),
	})
	require.NoError(t, err)

	systemActor, found, err := vm.actors.GetActor(builtin.SystemActorAddr)
	require.NoError(t, err)
	require.True(t, found, "system actor must be installed first")

	ctx := newInvocationContext(vm, internalMessage{
		from:   builtin.SystemActorAddr,
		to:     a,
		value:  big.Zero(),
		method: builtin.MethodConstructor,
		params: params,
	}, systemActor, vm.emptyObject)
	_, exitCode := ctx.invoke()
	require.Equal(t, exitcode.Ok, exitCode, "failed to construct %s", builtin.ActorNameByCode(code))
}

func initializeActor(ctx context.Context, t testing.TB, vm *VM, state cbor.Marshaler, code cid.Cid, a addr.Address, balance abi.TokenAmount) {
	stateCID, err := vm.store.Put(ctx, state)
	require.NoError(t, err)
	actor := &states.Actor{
		Head:    stateCID,
		Code:    code,
		Balance: balance,
	}
	err = vm.setActor(ctx, a, actor)
	require.NoError(t, err)
}
