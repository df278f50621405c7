package main

import "github.com/LavenderBridge/physbank/cmd"

func main() {
	cmd.Execute()
}
