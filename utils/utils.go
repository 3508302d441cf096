// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	formatter "github.com/onsi/ginkgo/v2/formatter"
)

// NativeDecimals is the number of fractional digits of a displayed amount.
const NativeDecimals = 9

var (
	ErrNegativeAmount   = errors.New("amount is negative")
	ErrFractionalAmount = errors.New("amount has too many decimals")
	ErrAmountOverflow   = errors.New("amount exceeds 128 bits")
)

// ToID derives an identifier from [bytes].
func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

func InitSubDirectory(rootPath string, name string) (string, error) {
	p := path.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// Outputs to stdout.
//
// e.g.,
//
//	Outf("{{green}}{{bold}}hi there %q{{/}}", "aa")
//	Outf("{{magenta}}{{bold}}hi therea{{/}} {{cyan}}{{underline}}b{{/}}")
//
// ref.
// https://github.com/onsi/ginkgo/blob/v2.0.0/formatter/formatter.go#L52-L73
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

// FormatAmount renders [v] with [NativeDecimals] fractional digits.
func FormatAmount(v *uint256.Int) string {
	if v == nil {
		v = new(uint256.Int)
	}
	return decimal.NewFromBigInt(v.ToBig(), -NativeDecimals).StringFixed(NativeDecimals)
}

// ParseAmount is the inverse of [FormatAmount]. Whole numbers are scaled by
// 10^[NativeDecimals].
func ParseAmount(s string) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrNegativeAmount, s)
	}
	scaled := d.Shift(NativeDecimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("%w: %s", ErrFractionalAmount, s)
	}
	v, overflow := uint256.FromBig(scaled.BigInt())
	if overflow || v.BitLen() > 128 {
		return nil, fmt.Errorf("%w: %s", ErrAmountOverflow, s)
	}
	return v, nil
}
