package main

import (
	"os"

	"github.com/idilsaglam/todoapp/internal/cli"
)

// Same entry point as cmd/todoapp, so `go install` of the module root works.
func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
