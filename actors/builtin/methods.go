package builtin

import (
	"github.com/filecoin-project/go-state-types/abi"
)

const (
	MethodSend        = abi.MethodNum(0)
	MethodConstructor = abi.MethodNum(1)
)

var MethodsAccount = struct {
	Constructor   abi.MethodNum
	PubkeyAddress abi.MethodNum
}{MethodConstructor, 2}

var MethodsInit = struct {
	Constructor abi.MethodNum
}{MethodConstructor}

var MethodsToken = struct {
	Constructor abi.MethodNum
	Mint        abi.MethodNum
	Transfer    abi.MethodNum
	BalanceOf   abi.MethodNum
}{MethodConstructor, 2, 3, 4}

var MethodsVesting = struct {
	Constructor              abi.MethodNum
	ReleaseVestedTokens      abi.MethodNum
	AddAllocation            abi.MethodNum
	SetLockAllAccounts       abi.MethodNum
	SetPerEpochReleaseAmount abi.MethodNum
	ChangeOwner              abi.MethodNum
	GetAllocation            abi.MethodNum
}{MethodConstructor, 2, 3, 4, 5, 6, 7}
