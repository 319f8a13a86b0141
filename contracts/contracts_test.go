// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contracts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/zapper/backend"
	"github.com/luxfi/zapper/compiler"
	"github.com/luxfi/zapper/ir"
	"github.com/luxfi/zapper/ledger"
	"github.com/luxfi/zapper/runtime"
)

func newTestRuntime(t *testing.T, descriptors ...compiler.ContractDescriptor) (*runtime.Runtime, *ledger.Ledger, *backend.MemoryBackend) {
	t.Helper()

	classes := make([]*ir.Class, 0, len(descriptors))
	for _, d := range descriptors {
		c, err := compiler.CompileContract(d)
		require.NoError(t, err)
		classes = append(classes, c)
	}

	mem := backend.NewMemoryBackend()
	l := ledger.NewLedger(mem, mem, ledger.Config{InitialTime: 1000, DisableProof: true, RegisterBudget: 10})
	require.NoError(t, l.RegisterClasses(classes))

	rt, err := runtime.NewRuntime(l, mem)
	require.NoError(t, err)
	return rt, l, mem
}

// TestCoinMintSplitMergeTransfer is the literal scenario 1 of the
// ledger's testable properties: mint, split, merge and transfer a
// fungible Coin, checking every resulting field.
func TestCoinMintSplitMergeTransfer(t *testing.T) {
	rt, _, _ := newTestRuntime(t, Coin())

	u1, err := rt.NewUserAccount()
	require.NoError(t, err)
	u2, err := rt.NewUserAccount()
	require.NoError(t, err)

	classHandle, err := rt.GetClassHandle("Coin")
	require.NoError(t, err)

	mint, err := classHandle.Function("mint")
	require.NoError(t, err)
	result, err := mint.Call(u1, runtime.Value(ir.NewWord(1000)))
	require.NoError(t, err)
	o1 := result.(*runtime.ObjectHandle)

	val, err := o1.Field("val")
	require.NoError(t, err)
	require.True(t, val.(ir.Word).Eq(ir.NewWord(1000)))
	owner, err := o1.Field("owner")
	require.NoError(t, err)
	require.True(t, owner.(ir.Word).Eq(u1.Address))

	assetID1, err := o1.Field("asset_id")
	require.NoError(t, err)

	split, err := o1.Function("split")
	require.NoError(t, err)
	result, err = split.Call(u1, runtime.Value(ir.NewWord(400)))
	require.NoError(t, err)
	o2 := result.(*runtime.ObjectHandle)

	val, err = o2.Field("val")
	require.NoError(t, err)
	require.True(t, val.(ir.Word).Eq(ir.NewWord(400)))
	owner, err = o2.Field("owner")
	require.NoError(t, err)
	require.True(t, owner.(ir.Word).Eq(u1.Address))
	assetID2, err := o2.Field("asset_id")
	require.NoError(t, err)
	require.True(t, assetID1.(ir.Word).Eq(assetID2.(ir.Word)))

	val, err = o1.Field("val")
	require.NoError(t, err)
	require.True(t, val.(ir.Word).Eq(ir.NewWord(600)))

	merge, err := o1.Function("merge")
	require.NoError(t, err)
	result, err = merge.Call(u1, o2)
	require.NoError(t, err)
	require.True(t, result.(ir.Word).Eq(ir.NewWord(1000)))

	val, err = o2.Field("val")
	require.NoError(t, err)
	require.True(t, val.(ir.Word).Eq(ir.NewWord(1000)))

	transfer, err := o2.Function("transfer")
	require.NoError(t, err)
	result, err = transfer.Call(u1, runtime.Value(u2.Address))
	require.NoError(t, err)
	require.True(t, result.(ir.Word).Eq(ir.NewWord(1)))

	owner, err = o2.Field("owner")
	require.NoError(t, err)
	require.True(t, owner.(ir.Word).Eq(u2.Address))
}

// TestFailedRequireRaisesBackendExecuteError is scenario 2: calling a
// function whose require() is unsatisfied must fail with
// BackendExecuteError and leave the ledger untouched.
func TestFailedRequireRaisesBackendExecuteError(t *testing.T) {
	rt, l, _ := newTestRuntime(t, Gate())

	u1, err := rt.NewUserAccount()
	require.NoError(t, err)

	classHandle, err := rt.GetClassHandle("Gate")
	require.NoError(t, err)
	open, err := classHandle.Function("open")
	require.NoError(t, err)
	result, err := open.Call(u1, runtime.Value(ir.NewWord(1)))
	require.NoError(t, err)
	gate := result.(*runtime.ObjectHandle)

	rootBefore := l.GetCurrentRoot()

	check, err := gate.Function("check")
	require.NoError(t, err)
	_, err = check.Call(u1, runtime.Value(ir.NewWord(5)))
	require.Error(t, err)
	var backendErr *runtime.BackendExecuteError
	require.ErrorAs(t, err, &backendErr)

	require.Equal(t, rootBefore, l.GetCurrentRoot())
}

// TestVaultExposesAddressAndOpenedAtTimestamp exercises PK and NOW, the
// two instruction families neither Coin nor Gate touches: a has_address
// class's own on-chain address, and the ledger-supplied timestamp
// recorded at construction time.
func TestVaultExposesAddressAndOpenedAtTimestamp(t *testing.T) {
	rt, l, _ := newTestRuntime(t, Vault())

	u1, err := rt.NewUserAccount()
	require.NoError(t, err)

	classHandle, err := rt.GetClassHandle("Vault")
	require.NoError(t, err)
	open, err := classHandle.Function("open")
	require.NoError(t, err)
	result, err := open.Call(u1)
	require.NoError(t, err)
	vault := result.(*runtime.ObjectHandle)

	openedAt, err := vault.Field("opened_at")
	require.NoError(t, err)
	require.True(t, openedAt.(ir.Word).Eq(ir.NewWord(l.CurrentTime())))

	addressFn, err := vault.Function("address")
	require.NoError(t, err)
	result, err = addressFn.Call(u1)
	require.NoError(t, err)

	wantAddr, err := vault.Address()
	require.NoError(t, err)
	require.True(t, result.(ir.Word).Eq(wantAddr))
}

// TestDoubleSpendRejection is scenario 3: a transaction whose
// consumed serials overlap an already-accepted transaction's must be
// rejected with a *ledger.TxRejected.
func TestDoubleSpendRejection(t *testing.T) {
	_, l, _ := newTestRuntime(t, Coin())

	root := l.GetCurrentRoot()
	now := l.CurrentTime()

	tx1 := ledger.Transaction{
		ClassName:       "Coin",
		FunctionName:    "mint",
		MerkleTreeRoot:  root,
		ConsumedSerials: []string{"01", "02"},
		NewRecords:      []string{"aa"},
		UniqueSeed:      "seed-one",
		CurrentTime:     now,
	}
	require.NoError(t, l.VerifyAndExecuteTransaction(tx1))

	tx2 := ledger.Transaction{
		ClassName:       "Coin",
		FunctionName:    "mint",
		MerkleTreeRoot:  l.GetCurrentRoot(),
		ConsumedSerials: []string{"01"},
		NewRecords:      []string{"bb"},
		UniqueSeed:      "seed-two",
		CurrentTime:     l.CurrentTime(),
	}
	err := l.VerifyAndExecuteTransaction(tx2)
	require.Error(t, err)
	var rejected *ledger.TxRejected
	require.ErrorAs(t, err, &rejected)
}

// TestReplayedSeedRejection is scenario 4: the ledger must never admit
// two transactions sharing a unique seed, even with disjoint serials.
func TestReplayedSeedRejection(t *testing.T) {
	_, l, _ := newTestRuntime(t, Coin())

	root := l.GetCurrentRoot()
	now := l.CurrentTime()

	tx1 := ledger.Transaction{
		ClassName:      "Coin",
		FunctionName:   "mint",
		MerkleTreeRoot: root,
		NewRecords:     []string{"aa"},
		UniqueSeed:     "3cf102a",
		CurrentTime:    now,
	}
	require.NoError(t, l.VerifyAndExecuteTransaction(tx1))

	tx2 := ledger.Transaction{
		ClassName:      "Coin",
		FunctionName:   "mint",
		MerkleTreeRoot: l.GetCurrentRoot(),
		NewRecords:     []string{"bb"},
		UniqueSeed:     "3cf102a",
		CurrentTime:    l.CurrentTime(),
	}
	err := l.VerifyAndExecuteTransaction(tx2)
	require.Error(t, err)
	var rejected *ledger.TxRejected
	require.ErrorAs(t, err, &rejected)
}

// TestStaleRootRejection is scenario 5: a transaction executed
// against a root that has since advanced must be rejected.
func TestStaleRootRejection(t *testing.T) {
	rt, l, _ := newTestRuntime(t, Coin())

	u1, err := rt.NewUserAccount()
	require.NoError(t, err)

	root0 := l.GetCurrentRoot()

	classHandle, err := rt.GetClassHandle("Coin")
	require.NoError(t, err)
	mint, err := classHandle.Function("mint")
	require.NoError(t, err)
	_, err = mint.Call(u1, runtime.Value(ir.NewWord(1000)))
	require.NoError(t, err)

	root1 := l.GetCurrentRoot()
	require.NotEqual(t, root0, root1)

	staleTx := ledger.Transaction{
		ClassName:      "Coin",
		FunctionName:   "mint",
		MerkleTreeRoot: root0,
		NewRecords:     []string{"cc"},
		UniqueSeed:     "stale-seed",
		CurrentTime:    l.CurrentTime(),
	}
	err = l.VerifyAndExecuteTransaction(staleTx)
	require.Error(t, err)
	var rejected *ledger.TxRejected
	require.ErrorAs(t, err, &rejected)
}
