package main

import (
	"os"

	"git.home.luguber.info/inful/pagebuild/cmd/pagebuild/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:], os.Stdout))
}
