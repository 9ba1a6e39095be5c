// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/resxgen/cmd/resxgen"

func main() {
	cmd.Execute()
}
