package main

import "github.com/confkit/confkit/cmd"

func main() {
	cmd.Execute()
}
