// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "curve-cli" drives a bonding curve stored in a local database.
package main

import (
	"os"

	"github.com/ava-labs/curvevm/cmd/curve-cli/cmd"
	"github.com/ava-labs/curvevm/utils"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		utils.Outf("{{red}}curve-cli exited with error:{{/}} %+v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
