// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package backend

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	luxcrypto "github.com/luxfi/crypto"
	"github.com/zeebo/blake3"

	"github.com/luxfi/zapper/ir"
	"github.com/luxfi/zapper/serializer"
)

// object is a single contract instance's committed state: its class,
// its own derived address (used by PK), and its fields keyed by
// allocated slot - slot 0 is always the owner field.
type object struct {
	classID int
	address ir.Word
	fields  map[int]ir.Word
}

func (o *object) clone() *object {
	fields := make(map[int]ir.Word, len(o.fields))
	for k, v := range o.fields {
		fields[k] = v
	}
	return &object{classID: o.classID, address: o.address, fields: fields}
}

// pendingCall is the staged effect of one not-yet-synced Execute
// call, applied to committed state by the matching SyncTx.
type pendingCall struct {
	created []string
	touched map[string]*object
	killed  []string
}

// MemoryBackend is a self-contained, in-process stand-in for the
// cryptographic back-end: it interprets serialized instructions
// directly, derives addresses and serials from blake3 digests instead
// of a zero-knowledge proving system, and always accepts proof
// verification. It exists to drive the ledger and runtime packages'
// own tests end to end; it is not a back-end implementation in the
// sense of §6.2, since none is in scope.
type MemoryBackend struct {
	mu sync.Mutex

	nextObjectID uint64
	executionSeq uint64

	accounts  map[string]KeyPair
	committed map[string]*object
	pending   []pendingCall
	synced    int
}

// NewMemoryBackend returns an empty back-end fake with no committed
// objects or accounts.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		accounts:  map[string]KeyPair{},
		committed: map[string]*object{},
	}
}

func hashHex(parts ...[]byte) string {
	h := blake3.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	h.Digest().Read(out[:])
	return ir.WordFromBytes(out[:]).ToHexStr()
}

func (b *MemoryBackend) deriveObjectAddress(objectID ir.Word) ir.Word {
	v, _ := ir.WordFromHex(hashHex(objectID.Bytes(), []byte("address")))
	return v
}

// NewUserAccount mints a fresh bn254 key pair and derives its address
// via Keccak256 of the public key, the same hashing this pack uses
// elsewhere for EVM-style address derivation.
func (b *MemoryBackend) NewUserAccount() (KeyPair, error) {
	var secret fr.Element
	secret.SetRandom()

	_, _, g1Gen, _ := bn254.Generators()
	var pub bn254.G1Affine
	pub.ScalarMultiplication(&g1Gen, secret.BigInt(new(big.Int)))
	pubBytes := pub.Bytes()

	addr := luxcrypto.Keccak256(pubBytes[:])
	secretBytes := secret.Bytes()

	keys := KeyPair{
		Address:   ir.WordFromBytes(addr).ToHexStr(),
		SecretKey: ir.WordFromBytes(secretBytes[:]).ToHexStr(),
		PublicKey: ir.WordFromBytes(pubBytes[:]).ToHexStr(),
	}

	b.mu.Lock()
	b.accounts[keys.Address] = keys
	b.mu.Unlock()
	return keys, nil
}

// RegisterAccount records an externally-created key pair.
func (b *MemoryBackend) RegisterAccount(keys KeyPair) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[keys.Address] = keys
	return nil
}

// GetAccountForAddress resolves a registered key pair by address.
func (b *MemoryBackend) GetAccountForAddress(addressHex string) (KeyPair, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys, ok := b.accounts[addressHex]
	if !ok {
		return KeyPair{}, fmt.Errorf("backend: no account registered for address %s", addressHex)
	}
	return keys, nil
}

// execContext holds one Execute call's working register file and
// object scratch space: committed objects are copied in on first
// reference, mutated locally, and staged for commit by SyncTx.
type execContext struct {
	backend      *MemoryBackend
	regs         map[int]ir.Word
	objects      map[string]*object
	created      []string
	touched      map[string]bool
	touchedOrder []string
}

func (c *execContext) getObject(id ir.Word) (*object, error) {
	key := id.ToHexStr()
	if obj, ok := c.objects[key]; ok {
		return obj, nil
	}
	c.backend.mu.Lock()
	committed, ok := c.backend.committed[key]
	c.backend.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("backend: reference to unknown object %s", key)
	}
	obj := committed.clone()
	c.objects[key] = obj
	return obj, nil
}

func (c *execContext) markTouched(id string) {
	if !c.touched[id] {
		c.touched[id] = true
		c.touchedOrder = append(c.touchedOrder, id)
	}
}

// Execute interprets fn's instruction stream against arguments ([sender,
// args...], hex-encoded) and the given ledger time, returning the
// execution artifacts a Transaction is built from. Object reads/writes
// are staged, not committed - SyncTx commits them once the ledger has
// accepted the resulting transaction.
func (b *MemoryBackend) Execute(fn *serializer.SerializedFunction, arguments []string, currentTimeHex string) (ExecutionResult, error) {
	currentTime, err := ir.WordFromHex(currentTimeHex)
	if err != nil {
		return ExecutionResult{}, fmt.Errorf("backend: invalid current time %q: %w", currentTimeHex, err)
	}

	ctx := &execContext{
		backend: b,
		regs:    map[int]ir.Word{},
		objects: map[string]*object{},
		touched: map[string]bool{},
	}
	for i, argHex := range arguments {
		v, err := ir.WordFromHex(argHex)
		if err != nil {
			return ExecutionResult{}, fmt.Errorf("backend: invalid argument %d (%q): %w", i, argHex, err)
		}
		ctx.regs[i] = v
	}

	var killed []string
	b.mu.Lock()
	b.executionSeq++
	executionID := b.executionSeq
	b.mu.Unlock()

	for pos, instr := range fn.Instructions {
		src1, err := operandValue(ctx.regs, instr.Src1, instr.Src1IsConst)
		if err != nil {
			return ExecutionResult{}, err
		}
		src2, err := operandValue(ctx.regs, instr.Src2, instr.Src2IsConst)
		if err != nil {
			return ExecutionResult{}, err
		}

		switch ir.Kind(instr.Opcode) {
		case ir.NoOp:
			// nothing

		case ir.Mov:
			ctx.regs[instr.Dst] = src1

		case ir.Cmov:
			if !src1.IsZero() {
				ctx.regs[instr.Dst] = src2
			}

		case ir.Req:
			if src1.IsZero() {
				return ExecutionResult{}, fmt.Errorf("backend: require failed at instruction %d", pos)
			}

		case ir.Load:
			obj, err := ctx.getObject(src1)
			if err != nil {
				return ExecutionResult{}, err
			}
			ctx.regs[instr.Dst] = obj.fields[int(src2.Uint64())]

		case ir.Store:
			obj, err := ctx.getObject(src1)
			if err != nil {
				return ExecutionResult{}, err
			}
			obj.fields[int(src2.Uint64())] = ctx.regs[instr.Dst]
			ctx.markTouched(src1.ToHexStr())

		case ir.Kill:
			killed = append(killed, src1.ToHexStr())

		case ir.Pk:
			obj, err := ctx.getObject(src1)
			if err != nil {
				return ExecutionResult{}, err
			}
			ctx.regs[instr.Dst] = obj.address

		case ir.New:
			b.mu.Lock()
			b.nextObjectID++
			objID := ir.NewWord(b.nextObjectID)
			b.mu.Unlock()

			obj := &object{classID: int(src1.Uint64()), address: b.deriveObjectAddress(objID), fields: map[int]ir.Word{}}
			key := objID.ToHexStr()
			ctx.objects[key] = obj
			ctx.created = append(ctx.created, key)
			ctx.markTouched(key)
			ctx.regs[instr.Dst] = objID

		case ir.Cid:
			obj, err := ctx.getObject(src1)
			if err != nil {
				return ExecutionResult{}, err
			}
			ctx.regs[instr.Dst] = ir.NewWord(uint64(obj.classID))

		case ir.Fresh:
			v, _ := ir.WordFromHex(hashHex(ir.NewWord(executionID).Bytes(), ir.NewWord(uint64(pos)).Bytes()))
			ctx.regs[instr.Dst] = v

		case ir.Now:
			ctx.regs[instr.Dst] = currentTime

		case ir.Plus:
			ctx.regs[instr.Dst] = src1.Add(src2)
		case ir.Minus:
			ctx.regs[instr.Dst] = src1.Sub(src2)
		case ir.Multiply:
			ctx.regs[instr.Dst] = src1.Mul(src2)
		case ir.Equals:
			ctx.regs[instr.Dst] = boolWord(src1.Eq(src2))
		case ir.Less:
			ctx.regs[instr.Dst] = boolWord(src1.Lt(src2))

		default:
			return ExecutionResult{}, fmt.Errorf("backend: unknown opcode %d at instruction %d", instr.Opcode, pos)
		}
	}

	newRecords := make([]string, 0, len(ctx.touchedOrder))
	touchedSet := map[string]*object{}
	for _, id := range ctx.touchedOrder {
		touchedSet[id] = ctx.objects[id]
		newRecords = append(newRecords, recordCommitment(id, ctx.objects[id]))
	}

	consumedSerials := make([]string, 0, len(killed))
	for _, id := range killed {
		consumedSerials = append(consumedSerials, hashHex([]byte(id), []byte("serial")))
	}

	b.mu.Lock()
	b.pending = append(b.pending, pendingCall{created: ctx.created, touched: touchedSet, killed: killed})
	b.mu.Unlock()

	return ExecutionResult{
		ReturnValue:     ctx.regs[fn.ReturnRegister].ToHexStr(),
		ConsumedSerials: consumedSerials,
		NewRecords:      newRecords,
		Proof:           nil,
		UniqueSeed:      hashHex(ir.NewWord(executionID).Bytes(), []byte("seed")),
		MerkleTreeRoot:  b.GetRoot(),
		CurrentTime:     currentTime.ToHexStr(),
	}, nil
}

func recordCommitment(objectIDHex string, obj *object) string {
	h := blake3.New()
	h.Write([]byte(objectIDHex))
	h.Write(ir.NewWord(uint64(obj.classID)).Bytes())
	for slot := 0; slot <= maxFieldSlot(obj); slot++ {
		h.Write(obj.fields[slot].Bytes())
	}
	var out [32]byte
	h.Digest().Read(out[:])
	return ir.WordFromBytes(out[:]).ToHexStr()
}

func maxFieldSlot(obj *object) int {
	max := -1
	for slot := range obj.fields {
		if slot > max {
			max = slot
		}
	}
	return max
}

func operandValue(regs map[int]ir.Word, valueHex string, isConst bool) (ir.Word, error) {
	if isConst {
		return ir.WordFromHex(valueHex)
	}
	slot, err := ir.WordFromHex(valueHex)
	if err != nil {
		return ir.Word{}, err
	}
	return regs[int(slot.Uint64())], nil
}

func boolWord(b bool) ir.Word {
	if b {
		return ir.NewWord(1)
	}
	return ir.NewWord(0)
}

// GetState returns an object's committed state.
func (b *MemoryBackend) GetState(objectIDHex string) (ObjectState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	obj, ok := b.committed[objectIDHex]
	if !ok {
		return ObjectState{}, fmt.Errorf("backend: no committed object %s", objectIDHex)
	}
	maxSlot := maxFieldSlot(obj)
	payload := make([]string, 0)
	for slot := 1; slot <= maxSlot; slot++ {
		payload = append(payload, obj.fields[slot].ToHexStr())
	}
	return ObjectState{
		ContractID: ir.NewWord(uint64(obj.classID)).ToHexStr(),
		AddrObject: obj.address.ToHexStr(),
		AddrOwner:  obj.fields[0].ToHexStr(),
		Payload:    payload,
	}, nil
}

// GetNofSyncedTx reports how many accepted transactions this back-end
// has folded into its committed state.
func (b *MemoryBackend) GetNofSyncedTx() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.synced, nil
}

// SyncTx commits the staged effects of the pending call that produced
// index's (serials, records). Re-syncing an already-applied index is
// a no-op, matching the replay-idempotence requirement.
func (b *MemoryBackend) SyncTx(index int, serials []string, records []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < b.synced {
		return nil
	}
	if index != b.synced {
		return fmt.Errorf("backend: out-of-order sync at index %d, expected %d", index, b.synced)
	}
	if index >= len(b.pending) {
		return fmt.Errorf("backend: no staged effects for transaction %d", index)
	}

	call := b.pending[index]
	for id, obj := range call.touched {
		b.committed[id] = obj
	}
	_ = serials
	_ = records
	b.synced++
	return nil
}

// GetRoot returns the back-end's own view of the commitment root, used
// only to seed Execute's reported MerkleTreeRoot; the ledger's own
// Merkle tree (which may be this same instance) is the authoritative
// one a transaction is validated against.
func (b *MemoryBackend) GetRoot() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := blake3.New()
	for i := 0; i < b.synced; i++ {
		for _, id := range b.pending[i].created {
			h.Write([]byte(id))
		}
	}
	var out [32]byte
	h.Digest().Read(out[:])
	return ir.WordFromBytes(out[:]).ToHexStr()
}

// Insert is a no-op hook satisfying backend.MerkleTree: this fake
// derives its root from synced transaction history instead of
// maintaining a real Merkle tree, since no proving system consumes it
// in tests.
func (b *MemoryBackend) Insert(index int, recordHex string) error { return nil }

// Verify always accepts: the back-end is stubbed to accept per the
// end-to-end scenarios, since proof generation and verification are
// out of scope.
func (b *MemoryBackend) Verify(
	seed string,
	root string,
	serials []string,
	records []string,
	classIDHex string,
	functionIDHex string,
	fn *serializer.SerializedFunction,
	timeHex string,
	proof []byte,
) (bool, error) {
	return true, nil
}

var (
	_ Runtime    = (*MemoryBackend)(nil)
	_ MerkleTree = (*MemoryBackend)(nil)
	_ Verifier   = (*MemoryBackend)(nil)
)
