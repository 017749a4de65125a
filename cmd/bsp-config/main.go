package main

import "bsp-config/internal/cli"

func main() {
	cli.Execute()
}
