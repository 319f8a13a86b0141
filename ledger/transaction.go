// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"fmt"

	"github.com/luxfi/zapper/backend"
	"github.com/luxfi/zapper/ir"
)

// Transaction is the wire shape §6.3 fixes: a function call's
// execution artifacts, ready to be validated and admitted.
type Transaction struct {
	ClassName       string
	FunctionName    string
	MerkleTreeRoot  string
	ConsumedSerials []string
	NewRecords      []string
	Proof           []byte
	UniqueSeed      string
	CurrentTime     uint64
}

// TransactionFromExecutionResult builds the Transaction a successful
// back-end execution produces, ready for ledger submission. The
// current time is decoded from the hex value the back-end itself
// echoed back, the time it actually ran against.
func TransactionFromExecutionResult(className, functionName string, res backend.ExecutionResult) (Transaction, error) {
	t, err := ir.WordFromHex(res.CurrentTime)
	if err != nil {
		return Transaction{}, fmt.Errorf("ledger: decoding execution result time: %w", err)
	}
	return Transaction{
		ClassName:       className,
		FunctionName:    functionName,
		MerkleTreeRoot:  res.MerkleTreeRoot,
		ConsumedSerials: res.ConsumedSerials,
		NewRecords:      res.NewRecords,
		Proof:           res.Proof,
		UniqueSeed:      res.UniqueSeed,
		CurrentTime:     t.Uint64(),
	}, nil
}
