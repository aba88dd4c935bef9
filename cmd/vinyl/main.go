package main

import "github.com/mbaklund/vinyl/internal/cli"

func main() {
	cli.Execute()
}
