package testing

import (
	"math/rand"
	"testing"

	addr "github.com/filecoin-project/go-address"
	"github.com/stretchr/testify/require"
)

func NewIDAddr(t testing.TB, id uint64) addr.Address {
	address, err := addr.NewIDAddress(id)
	require.NoError(t, err)
	return address
}

func NewSECP256K1Addr(t testing.TB, pubkey string) addr.Address {
	// the pubkey of a secp256k1 address is hashed for consistent length.
	address, err := addr.NewSecp256k1Address([]byte(pubkey))
	require.NoError(t, err)
	return address
}

func NewActorAddr(t testing.TB, data string) addr.Address {
	address, err := addr.NewActorAddress([]byte(data))
	require.NoError(t, err)
	return address
}

// NewBLSAddrs returns n BLS addresses derived deterministically from a seed.
func NewBLSAddrs(t testing.TB, n int, seed int64) []addr.Address {
	r := rand.New(rand.NewSource(seed))
	addrs := make([]addr.Address, n)
	for i := range addrs {
		// the pubkey of a bls address is not hashed and must be the correct length.
		buf := make([]byte, 48)
		r.Read(buf)

		address, err := addr.NewBLSAddress(buf)
		require.NoError(t, err)
		addrs[i] = address
	}
	return addrs
}
