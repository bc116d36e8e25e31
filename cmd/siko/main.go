package main

import "github.com/funvibe/siko/pkg/cli"

func main() {
	cli.Run()
}
