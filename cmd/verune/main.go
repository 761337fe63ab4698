package main

import "verune/internal/cli"

func main() {
	cli.Execute()
}
