package exported_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
	"github.com/filecoin-project/vesting-actors/actors/builtin/exported"
	"github.com/filecoin-project/vesting-actors/support/mock"
)

func TestKnownActors(t *testing.T) {
	seen := map[string]bool{}
	for _, actor := range exported.BuiltinActors() {
		assert.True(t, builtin.IsBuiltinActor(actor.Code()), "unexpected code %v", actor.Code())
		name := builtin.ActorNameByCode(actor.Code())
		assert.False(t, seen[name], "duplicate actor %s", name)
		seen[name] = true

		mock.CheckActorExports(t, actor)
	}
	assert.Len(t, seen, 5)
}
