// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package assembly

// Limits bounds resources the back-end processor imposes per
// function. The zero value is invalid; use DefaultLimits.
type Limits struct {
	// RegisterBudget caps the number of distinct register slots a
	// single function's linear-scan allocation may use.
	RegisterBudget int
}

// DefaultLimits matches the back-end's typical per-function register
// budget.
func DefaultLimits() Limits {
	return Limits{RegisterBudget: 10}
}
