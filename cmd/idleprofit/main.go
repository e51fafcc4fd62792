package main

import "github.com/andrescamacho/idleprofit-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
