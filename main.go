package main

import (
	"github.com/lepinkainen/meeple/cmd"
)

var execute = cmd.Execute

func main() {
	execute()
}
