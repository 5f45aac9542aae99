package mock

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/filecoin-project/vesting-actors/actors/runtime"
)

// CheckActorExports checks that every exported method has a valid signature and that every
// public method on the actor is exported.
func CheckActorExports(t *testing.T, act interface{ Exports() []interface{} }) {
	for i, m := range act.Exports() {
		if i == 0 { // Send is implicit
			continue
		}

		if m == nil {
			continue
		}

		meth := reflect.ValueOf(m)
		ty := meth.Type()
		assert.Equal(t, reflect.Func, ty.Kind(), "method %d is not a function", i)
		assert.Equal(t, 2, ty.NumIn(), "method %d must take a runtime and a params pointer", i)
		assert.Equal(t, typeOfRuntimeInterface, ty.In(0), "method %d first parameter must be runtime", i)
		assert.True(t, ty.In(1).Implements(typeOfCborUnmarshaler), "method %d params must be CBOR-unmarshalable", i)
		assert.Equal(t, 1, ty.NumOut(), "method %d must return a single value", i)
		assert.True(t, ty.Out(0).Implements(typeOfCborMarshaler), "method %d return must be CBOR-marshalable", i)
	}

	// The actor type exports exactly the methods reachable through Exports, plus the VMActor interface.
	vmActor := reflect.TypeOf((*runtime.VMActor)(nil)).Elem()
	actorType := reflect.TypeOf(act)
	exported := 0
	for _, m := range act.Exports() {
		if m != nil {
			exported++
		}
	}
	assert.Equal(t, exported+vmActor.NumMethod(), actorType.NumMethod(), "unexported public methods on %v", actorType)
}
