package main

import "github.com/nash-labs/nash-mcp/cmd"

func main() {
	cmd.Execute()
}
