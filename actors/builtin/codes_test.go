package builtin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/vesting-actors/actors/builtin"
)

func TestCodeIDs(t *testing.T) {
	codes := []struct {
		name string
		code interface{ Defined() bool }
	}{
		{"system", builtin.SystemActorCodeID},
		{"init", builtin.InitActorCodeID},
		{"account", builtin.AccountActorCodeID},
		{"token", builtin.TokenActorCodeID},
		{"vesting", builtin.VestingActorCodeID},
	}
	for _, c := range codes {
		assert.True(t, c.code.Defined(), "%s code undefined", c.name)
	}

	assert.Equal(t, "fil/1/vesting", builtin.ActorNameByCode(builtin.VestingActorCodeID))
	assert.True(t, builtin.IsBuiltinActor(builtin.TokenActorCodeID))
}

func TestCallerTypesSignable(t *testing.T) {
	require.Len(t, builtin.CallerTypesSignable, 1)
	assert.True(t, builtin.CallerTypesSignable[0].Defined())
	assert.True(t, builtin.CallerTypesSignable[0].Equals(builtin.AccountActorCodeID))
}
