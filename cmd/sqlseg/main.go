package main

import "sqlseg/internal/cli"

func main() {
	cli.Execute()
}
