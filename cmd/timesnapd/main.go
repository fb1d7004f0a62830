// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/vivisn00b/timesnap-btrfs/pkg/cli"
)

func main() {
	os.Exit(cli.RunDaemon(os.Args))
}
