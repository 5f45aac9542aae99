package adt_test

import (
	"context"
	"testing"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/vesting-actors/actors/util/adt"
	"github.com/filecoin-project/vesting-actors/support/ipld"
	"github.com/filecoin-project/vesting-actors/support/mock"
	tutil "github.com/filecoin-project/vesting-actors/support/testing"
)

func TestMap(t *testing.T) {
	rt := mock.NewBuilder(context.Background(), address.Undef).Build(t)
	store := adt.AsStore(rt)
	anne := tutil.NewIDAddr(t, 101)
	bob := tutil.NewIDAddr(t, 102)

	m, err := adt.MakeEmptyMap(store, 5)
	require.NoError(t, err)

	v := abi.NewTokenAmount(10)
	require.NoError(t, m.Put(abi.AddrKey(anne), &v))
	v = abi.NewTokenAmount(20)
	require.NoError(t, m.Put(abi.AddrKey(bob), &v))

	root, err := m.Root()
	require.NoError(t, err)
	m, err = adt.AsMap(store, root, 5)
	require.NoError(t, err)

	var out abi.TokenAmount
	found, err := m.Get(abi.AddrKey(anne), &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, abi.NewTokenAmount(10), out)

	has, err := m.Has(abi.AddrKey(tutil.NewIDAddr(t, 103)))
	require.NoError(t, err)
	assert.False(t, has)

	keys, err := m.CollectKeys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{abi.AddrKey(anne).Key(), abi.AddrKey(bob).Key()}, keys)

	sum := big.Zero()
	require.NoError(t, m.ForEach(&out, func(key string) error {
		sum = big.Add(sum, out)
		return nil
	}))
	assert.Equal(t, abi.NewTokenAmount(30), sum)

	require.NoError(t, m.Delete(abi.AddrKey(anne)))
	assert.Error(t, m.Delete(abi.AddrKey(anne)))
	deleted, err := m.TryDelete(abi.AddrKey(anne))
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestArray(t *testing.T) {
	store := ipld.NewADTStore(context.Background())

	arr, err := adt.MakeEmptyArray(store, 3)
	require.NoError(t, err)
	for i := int64(1); i <= 20; i++ {
		v := abi.NewTokenAmount(i)
		require.NoError(t, arr.AppendContinuous(&v))
	}
	root, err := arr.Root()
	require.NoError(t, err)

	arr, err = adt.AsArray(store, root, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), arr.Length())

	var out abi.TokenAmount
	found, err := arr.Get(9, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, abi.NewTokenAmount(10), out)

	found, err = arr.Get(20, &out)
	require.NoError(t, err)
	assert.False(t, found)

	var indexes []int64
	require.NoError(t, arr.ForEach(&out, func(i int64) error {
		assert.Equal(t, abi.NewTokenAmount(i+1), out)
		indexes = append(indexes, i)
		return nil
	}))
	assert.Len(t, indexes, 20)
}

func TestBalanceTable(t *testing.T) {
	store := ipld.NewADTStore(context.Background())
	anne := tutil.NewIDAddr(t, 101)
	bob := tutil.NewIDAddr(t, 102)

	newTable := func(t *testing.T) *adt.BalanceTable {
		root, err := adt.StoreEmptyMap(store, adt.BalanceTableBitwidth)
		require.NoError(t, err)
		bt, err := adt.AsBalanceTable(store, root)
		require.NoError(t, err)
		return bt
	}

	t.Run("absent keys have zero balance", func(t *testing.T) {
		bt := newTable(t)
		amount, err := bt.Get(anne)
		require.NoError(t, err)
		assert.True(t, amount.IsZero())
	})

	t.Run("add accumulates", func(t *testing.T) {
		bt := newTable(t)
		require.NoError(t, bt.Add(anne, abi.NewTokenAmount(10)))
		require.NoError(t, bt.Add(anne, abi.NewTokenAmount(20)))
		require.NoError(t, bt.Add(bob, abi.NewTokenAmount(5)))

		amount, err := bt.Get(anne)
		require.NoError(t, err)
		assert.Equal(t, abi.NewTokenAmount(30), amount)

		total, err := bt.Total()
		require.NoError(t, err)
		assert.Equal(t, abi.NewTokenAmount(35), total)

		assert.Error(t, bt.Add(bob, abi.NewTokenAmount(-6)))
	})

	t.Run("subtract with minimum", func(t *testing.T) {
		bt := newTable(t)
		require.NoError(t, bt.Add(anne, abi.NewTokenAmount(100)))

		sub, err := bt.SubtractWithMinimum(anne, abi.NewTokenAmount(80), abi.NewTokenAmount(40))
		require.NoError(t, err)
		assert.Equal(t, abi.NewTokenAmount(60), sub)

		amount, err := bt.Get(anne)
		require.NoError(t, err)
		assert.Equal(t, abi.NewTokenAmount(40), amount)
	})

	t.Run("must subtract", func(t *testing.T) {
		bt := newTable(t)
		require.NoError(t, bt.Add(anne, abi.NewTokenAmount(100)))
		assert.Error(t, bt.MustSubtract(anne, abi.NewTokenAmount(101)))
		require.NoError(t, bt.MustSubtract(anne, abi.NewTokenAmount(100)))

		keys, err := (*adt.Map)(bt).CollectKeys()
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}
