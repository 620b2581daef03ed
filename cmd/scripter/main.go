package main

import "github.com/goldytalks/novig-scripter/internal/cli"

func main() {
	cli.Main()
}
