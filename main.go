// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of sshkeyctl

package main

import "github.com/chez-shanpu/sshkeyctl/cmd"

func main() {
	cmd.Execute()
}
