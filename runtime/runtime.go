// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"fmt"

	log "github.com/luxfi/log"

	"github.com/luxfi/zapper/backend"
	"github.com/luxfi/zapper/ir"
	"github.com/luxfi/zapper/ledger"
)

// Runtime drives local execution against a back-end and keeps it in
// lock-step with a ledger's admitted transaction history.
type Runtime struct {
	ledger  *ledger.Ledger
	backend backend.Runtime
	log     log.Logger
}

// NewRuntime wires a back-end to a ledger and immediately replays any
// transaction history the back-end has not yet seen.
func NewRuntime(l *ledger.Ledger, b backend.Runtime) (*Runtime, error) {
	rt := &Runtime{ledger: l, backend: b, log: log.NewTestLogger(log.InfoLevel)}
	if err := rt.Sync(); err != nil {
		return nil, err
	}
	return rt, nil
}

// Sync replays every ledger transaction the back-end has not yet
// synced, in admission order.
func (r *Runtime) Sync() error {
	r.log.Info("synchronizing local state with ledger")
	synced, err := r.backend.GetNofSyncedTx()
	if err != nil {
		return fmt.Errorf("runtime: querying synced transaction count: %w", err)
	}
	accepted := r.ledger.AcceptedTransactions()
	for i := synced; i < len(accepted); i++ {
		if err := r.backend.SyncTx(i, accepted[i].Serials, accepted[i].Records); err != nil {
			return fmt.Errorf("runtime: syncing transaction %d: %w", i, err)
		}
	}
	return nil
}

// NewUserAccount asks the back-end to mint a fresh account.
func (r *Runtime) NewUserAccount() (Account, error) {
	keys, err := r.backend.NewUserAccount()
	if err != nil {
		return Account{}, fmt.Errorf("runtime: creating user account: %w", err)
	}
	account, err := NewAccount(keys)
	if err != nil {
		return Account{}, err
	}
	r.log.Info("created new user account", "address", account.Address.ToHexStr())
	return account, nil
}

// RegisterAccount registers an externally-created account with the
// back-end.
func (r *Runtime) RegisterAccount(account Account) error {
	if err := r.backend.RegisterAccount(account.Keys); err != nil {
		return fmt.Errorf("runtime: registering account: %w", err)
	}
	r.log.Info("registered account", "address", account.Address.ToHexStr())
	return nil
}

// GetAccountForAddress resolves the key pair the back-end holds for
// address.
func (r *Runtime) GetAccountForAddress(address ir.Word) (Account, error) {
	keys, err := r.backend.GetAccountForAddress(address.ToHexStr())
	if err != nil {
		return Account{}, fmt.Errorf("runtime: resolving account for address %s: %w", address.ToHexStr(), err)
	}
	return NewAccount(keys)
}

// GetClassHandle returns the façade for a registered class's
// constructor functions.
func (r *Runtime) GetClassHandle(className string) (*ClassHandle, error) {
	class, ok := r.ledger.GetClassByName(className)
	if !ok {
		return nil, fmt.Errorf("runtime: unknown class %s", className)
	}
	return NewClassHandle(r, class), nil
}

// CallFunction executes className.functionName against arguments on
// behalf of sender: it resolves the serialized function, asks the
// back-end to execute it, submits the resulting transaction to the
// ledger, and replays the newly-accepted transaction back into the
// back-end's own state before returning the decoded return value.
func (r *Runtime) CallFunction(className, functionName string, sender Account, arguments []ir.Word) (ir.Word, error) {
	fn, err := r.ledger.GetSerializedFunction(className, functionName)
	if err != nil {
		return ir.Word{}, err
	}

	hexArgs := PrepareArguments(sender, arguments)

	r.log.Info("locally executing function", "class", className, "function", functionName, "arguments", fmt.Sprint(hexArgs))
	res, err := r.backend.Execute(fn, hexArgs, ir.NewWord(r.ledger.CurrentTime()).ToHexStr())
	if err != nil {
		r.log.Error("error while executing instructions", "error", err.Error())
		return ir.Word{}, newBackendExecuteError(err)
	}

	tx, err := ledger.TransactionFromExecutionResult(className, functionName, res)
	if err != nil {
		return ir.Word{}, err
	}

	r.log.Info("sending transaction to ledger for verification")
	if err := r.ledger.VerifyAndExecuteTransaction(tx); err != nil {
		return ir.Word{}, err
	}
	r.log.Info("successfully accepted transaction at ledger")

	synced, err := r.backend.GetNofSyncedTx()
	if err != nil {
		return ir.Word{}, fmt.Errorf("runtime: querying synced transaction count: %w", err)
	}
	if err := r.backend.SyncTx(synced, tx.ConsumedSerials, tx.NewRecords); err != nil {
		return ir.Word{}, fmt.Errorf("runtime: syncing new transaction: %w", err)
	}

	returnValue, err := ir.WordFromHex(res.ReturnValue)
	if err != nil {
		return ir.Word{}, fmt.Errorf("runtime: decoding return value: %w", err)
	}
	r.log.Info("finished call", "class", className, "function", functionName)
	return returnValue, nil
}

// GetRawState returns an object's raw on-chain state.
func (r *Runtime) GetRawState(objectID ir.Word) (backend.ObjectState, error) {
	return r.backend.GetState(objectID.ToHexStr())
}

// GetFieldValues returns an object's field values keyed by field
// name, decoded according to the object's class layout.
func (r *Runtime) GetFieldValues(objectID ir.Word) (map[string]ir.Word, error) {
	state, err := r.GetRawState(objectID)
	if err != nil {
		return nil, err
	}
	contractID, err := ir.WordFromHex(state.ContractID)
	if err != nil {
		return nil, fmt.Errorf("runtime: decoding contract id: %w", err)
	}
	class, err := r.ledger.GetClassForID(int(contractID.Uint64()))
	if err != nil {
		return nil, err
	}

	values := map[string]ir.Word{}
	for _, name := range class.SortedFieldNames() {
		field := class.Fields[name]
		var raw string
		if field.Slot() == 0 {
			raw = state.AddrOwner
		} else {
			raw = state.Payload[field.Slot()-1]
		}
		v, err := ir.WordFromHex(raw)
		if err != nil {
			return nil, fmt.Errorf("runtime: decoding field %s: %w", name, err)
		}
		values[name] = v
	}
	return values, nil
}

// PrepareArguments builds the hex argument vector a back-end expects:
// the sender's address followed by every call argument, in order.
func PrepareArguments(sender Account, arguments []ir.Word) []string {
	out := make([]string, 0, len(arguments)+1)
	out = append(out, sender.Address.ToHexStr())
	for _, a := range arguments {
		out = append(out, a.ToHexStr())
	}
	return out
}
