package main

import "github.com/caremate-dev/caremate/internal/cli"

func main() {
	cli.Execute()
}
