package builtin

import (
	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

// The built-in actor code IDs
var SystemActorCodeID cid.Cid
var InitActorCodeID cid.Cid
var AccountActorCodeID cid.Cid
var TokenActorCodeID cid.Cid
var VestingActorCodeID cid.Cid

func init() {
	builder := cid.V1Builder{Codec: cid.Raw, MhType: mh.IDENTITY}
	makeBuiltin := func(s string) cid.Cid {
		c, err := builder.Sum([]byte(s))
		if err != nil {
			panic(err)
		}
		return c
	}

	SystemActorCodeID = makeBuiltin("fil/1/system")
	InitActorCodeID = makeBuiltin("fil/1/init")
	AccountActorCodeID = makeBuiltin("fil/1/account")
	TokenActorCodeID = makeBuiltin("fil/1/token")
	VestingActorCodeID = makeBuiltin("fil/1/vesting")

	CallerTypesSignable = []cid.Cid{AccountActorCodeID}
}

// IsBuiltinActor returns true if the code belongs to an actor defined in this repo.
func IsBuiltinActor(code cid.Cid) bool {
	return code.Equals(SystemActorCodeID) ||
		code.Equals(InitActorCodeID) ||
		code.Equals(AccountActorCodeID) ||
		code.Equals(TokenActorCodeID) ||
		code.Equals(VestingActorCodeID)
}

// ActorNameByCode returns the (string) name of the actor given a cid code.
func ActorNameByCode(code cid.Cid) string {
	if !code.Defined() {
		return "<undefined>"
	}

	names := map[cid.Cid]string{
		SystemActorCodeID:  "fil/1/system",
		InitActorCodeID:    "fil/1/init",
		AccountActorCodeID: "fil/1/account",
		TokenActorCodeID:   "fil/1/token",
		VestingActorCodeID: "fil/1/vesting",
	}
	name, ok := names[code]
	if !ok {
		return "<unknown>"
	}
	return name
}
