// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// Key prefixes
const (
	paramsPrefix byte = iota
	tokenPrefix
	supplyPrefix
	reservesPrefix
	graduatedPrefix
	poolPrefix
	lpBalancePrefix
	launchBlockPrefix
	graduationBlockPrefix
	strategyPrefix
	lpAllocationPrefix
	ammPoolPrefix
	ammPoolCountPrefix
	metadataPrefix
)
