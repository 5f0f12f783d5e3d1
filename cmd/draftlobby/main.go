package main

import (
	"github.com/scrimqueue/draftlobby/internal/cli"
)

func main() {
	cli.Execute()
}
