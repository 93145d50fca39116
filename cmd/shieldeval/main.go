// cmd/shieldeval/main.go
package main

import (
	commands "github.com/shieldops/shieldeval/internal/commands"
)

// main starts the shieldeval CLI application by delegating to the
// cobra root command defined in the commands package. It does not
// take any arguments and does not return a value.
func main() {
	commands.Execute()
}
