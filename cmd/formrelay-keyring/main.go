package main

import (
	"os"

	"github.com/dafonte/formrelay/pkg/keyringcmd"
)

func main() {
	root := keyringcmd.NewRootCommand(keyringcmd.DefaultConfig())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
