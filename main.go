// SPDX-License-Identifier: MPL-2.0

// Packster is a content-addressed package manager.
package main

import cmd "github.com/packster/packster/cmd/packster"

func main() {
	cmd.Execute()
}
