package main

import (
	"github.com/kmaier/prephoops/internal/cli"
)

func main() {
	cli.Execute()
}
