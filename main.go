package main

import "github.com/killallgit/agentflow/cmd"

func main() {
	cmd.Execute()
}
