package exported

import (
	"github.com/filecoin-project/vesting-actors/actors/builtin/account"
	init_ "github.com/filecoin-project/vesting-actors/actors/builtin/init"
	"github.com/filecoin-project/vesting-actors/actors/builtin/system"
	"github.com/filecoin-project/vesting-actors/actors/builtin/token"
	"github.com/filecoin-project/vesting-actors/actors/builtin/vesting"
	"github.com/filecoin-project/vesting-actors/actors/runtime"
)

func BuiltinActors() []runtime.VMActor {
	return []runtime.VMActor{
		account.Actor{},
		init_.Actor{},
		system.Actor{},
		token.Actor{},
		vesting.Actor{},
	}
}
