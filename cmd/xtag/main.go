package main

import "github.com/user/xtag/internal/cli"

func main() {
	cli.Execute()
}
