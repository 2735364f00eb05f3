package main

import "github.com/emreakca/cursorwatch/internal/cli"

func main() {
	cli.Execute()
}
