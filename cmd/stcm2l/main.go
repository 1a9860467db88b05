// cmd/stcm2l/main.go
package main

import (
	cmd "github.com/Sunnie-Evergale/stcm2l-psv/internal/commands"
)

// main starts the stcm2l CLI application by delegating to the cobra
// root command defined in the commands package. It does not take any
// arguments and does not return a value.
func main() {
	cmd.Execute()
}
