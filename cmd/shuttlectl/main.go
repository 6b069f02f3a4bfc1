package main

import "github.com/shuttleday/shuttleday/internal/cli"

func main() {
	cli.Execute()
}
