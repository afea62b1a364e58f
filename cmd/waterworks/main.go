package main

import "github.com/waterworks-ph/waterworks/internal/cli"

func main() {
	cli.Execute()
}
