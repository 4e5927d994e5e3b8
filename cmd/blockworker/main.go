package main

import "github.com/vietddude/blockworker/internal/cli"

func main() {
	cli.Execute()
}
