package main

import "github.com/mvp-joe/symgrep/internal/cli"

func main() {
	cli.Execute()
}
