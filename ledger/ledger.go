// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"fmt"
	"sync"

	log "github.com/luxfi/log"

	"github.com/luxfi/zapper/assembly"
	"github.com/luxfi/zapper/backend"
	"github.com/luxfi/zapper/ir"
	"github.com/luxfi/zapper/serializer"
)

type funcKey struct {
	className    string
	functionName string
}

// acceptedRecord is one entry of the ledger's append-only history: the
// serials a committed transaction consumed and the records it
// produced, replayed into a lagging runtime's back-end in order.
type acceptedRecord struct {
	Serials []string
	Records []string
}

// Ledger is the stateful validator of §4.6: it holds the published
// serial and seed sets, the Merkle commitment tree, the class
// registry, and the accepted-transaction history, and admits or
// rejects transactions through VerifyAndExecuteTransaction alone.
type Ledger struct {
	storage *assembly.Storage
	limits  assembly.Limits

	serializedFunctions map[funcKey]*serializer.SerializedFunction

	merkleTree backend.MerkleTree
	verifier   backend.Verifier // nil disables proof verification (Config.DisableProof)

	publishedSerials map[string]bool
	publishedSeeds   map[string]bool
	nextRecordIndex  int
	currentTime      uint64

	history []acceptedRecord

	log log.Logger

	// mu serializes VerifyAndExecuteTransaction. Not required for a
	// single-goroutine caller, but a host embedding this module across
	// goroutines needs it to keep admission atomic.
	mu sync.Mutex
}

// NewLedger creates an empty ledger backed by the given Merkle tree
// and (optional) verifier.
func NewLedger(merkleTree backend.MerkleTree, verifier backend.Verifier, cfg Config) *Ledger {
	limits := assembly.DefaultLimits()
	if cfg.RegisterBudget > 0 {
		limits.RegisterBudget = cfg.RegisterBudget
	}
	if cfg.DisableProof {
		verifier = nil
	}
	return &Ledger{
		storage:             assembly.NewStorage(),
		limits:              limits,
		serializedFunctions: map[funcKey]*serializer.SerializedFunction{},
		merkleTree:          merkleTree,
		verifier:            verifier,
		publishedSerials:    map[string]bool{},
		publishedSeeds:      map[string]bool{},
		currentTime:         cfg.InitialTime,
		log:                 log.NewTestLogger(log.InfoLevel),
	}
}

// RegisterClasses adds every class to storage, runs the whole L1-L8
// pipeline over them, and serializes every non-private function for
// later lookup by (class name, function name). Function ids are
// assigned per class, skipping private functions, matching the
// back-end's own numbering.
func (l *Ledger) RegisterClasses(classes []*ir.Class) error {
	for _, c := range classes {
		if err := l.storage.AddClass(c); err != nil {
			return err
		}
	}
	if err := l.storage.Compile(l.limits); err != nil {
		return err
	}

	for _, c := range classes {
		functionID := 0
		for _, fname := range c.SortedFunctionNames() {
			fn := c.Functions[fname]
			if fn.IsPrivate {
				continue
			}
			sf, err := serializer.SerializeFunction(c.ClassID, functionID, fn)
			if err != nil {
				return err
			}
			l.serializedFunctions[funcKey{c.QualifiedName(), fn.Name}] = sf
			functionID++
		}
	}
	l.log.Info("registered classes", "count", len(classes))
	return nil
}

// GetClassByName returns the registered class with the given
// qualified name.
func (l *Ledger) GetClassByName(name string) (*ir.Class, bool) {
	return l.storage.Get(name)
}

// GetClassForID returns the class with the given class id.
func (l *Ledger) GetClassForID(classID int) (*ir.Class, error) {
	for name, id := range l.storage.ClassToID() {
		if id == classID {
			c, _ := l.storage.Get(name)
			return c, nil
		}
	}
	return nil, fmt.Errorf("ledger: unknown class id %d", classID)
}

// GetSerializedFunction returns the serialized, public function
// (className, functionName) resolves to.
func (l *Ledger) GetSerializedFunction(className, functionName string) (*serializer.SerializedFunction, error) {
	sf, ok := l.serializedFunctions[funcKey{className, functionName}]
	if !ok {
		return nil, fmt.Errorf("ledger: unknown function %s.%s or function not public", className, functionName)
	}
	return sf, nil
}

func (l *Ledger) GetCurrentRoot() string { return l.merkleTree.GetRoot() }

func (l *Ledger) CurrentTime() uint64 { return l.currentTime }

// TestIncreaseCurrentTimeBy advances the externally-driven ledger
// clock, for use by tests that need to cross a time-gated require.
func (l *Ledger) TestIncreaseCurrentTimeBy(amount uint64) { l.currentTime += amount }

// AcceptedTransactions returns the ledger's full history, in
// submission order, for a runtime to replay into a lagging back-end.
func (l *Ledger) AcceptedTransactions() []acceptedRecord {
	out := make([]acceptedRecord, len(l.history))
	copy(out, l.history)
	return out
}

// VerifyAndExecuteTransaction runs the eight-step admission pipeline
// of §4.6 against tx. Any failed check returns a *TxRejected and
// leaves the ledger's state byte-for-byte unchanged.
func (l *Ledger) VerifyAndExecuteTransaction(tx Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	reject := func(reason string) error {
		l.log.Warn("rejected transaction", "class", tx.ClassName, "function", tx.FunctionName, "reason", reason)
		return newTxRejected(reason)
	}

	seen := map[string]bool{}
	for _, serial := range tx.ConsumedSerials {
		if seen[serial] {
			return reject("serial numbers of transaction not unique")
		}
		seen[serial] = true
	}

	for serial := range seen {
		if l.publishedSerials[serial] {
			return reject("at least one serial number of transaction has been observed earlier")
		}
	}

	if l.publishedSeeds[tx.UniqueSeed] {
		return reject("unique_seed has been observed earlier")
	}

	if tx.MerkleTreeRoot != l.merkleTree.GetRoot() {
		return reject("transaction root does not match current merkle tree root")
	}

	if tx.CurrentTime != l.currentTime {
		return reject("timestamp of transaction invalid")
	}

	sf, err := l.GetSerializedFunction(tx.ClassName, tx.FunctionName)
	if err != nil {
		return reject(err.Error())
	}

	if l.verifier != nil {
		ok, err := l.verifyProof(tx, sf)
		if err != nil {
			return reject(fmt.Sprintf("proof verification raised an error: %s", err))
		}
		if !ok {
			return reject("proof verification failed")
		}
	}

	for serial := range seen {
		l.publishedSerials[serial] = true
	}
	l.publishedSeeds[tx.UniqueSeed] = true
	for _, record := range tx.NewRecords {
		if err := l.merkleTree.Insert(l.nextRecordIndex, record); err != nil {
			return fmt.Errorf("ledger: inserting record into merkle tree: %w", err)
		}
		l.nextRecordIndex++
	}
	l.history = append(l.history, acceptedRecord{
		Serials: setToSlice(seen),
		Records: tx.NewRecords,
	})
	l.log.Info("accepted transaction", "class", tx.ClassName, "function", tx.FunctionName)
	return nil
}

func (l *Ledger) verifyProof(tx Transaction, sf *serializer.SerializedFunction) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("panic: %v", r)
		}
	}()
	return l.verifier.Verify(
		tx.UniqueSeed,
		tx.MerkleTreeRoot,
		tx.ConsumedSerials,
		tx.NewRecords,
		ir.NewWord(uint64(sf.ClassID)).ToHexStr(),
		ir.NewWord(uint64(sf.FunctionID)).ToHexStr(),
		sf,
		ir.NewWord(l.currentTime).ToHexStr(),
		tx.Proof,
	)
}

func setToSlice(s map[string]bool) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
