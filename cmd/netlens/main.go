package main

import "github.com/netlens/netlens/internal/cli"

func main() {
	cli.Execute()
}
