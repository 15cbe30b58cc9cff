package main

import "github.com/rustyeddy/smartfolio/internal/cli"

func main() {
	cli.Execute()
}
