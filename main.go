package main

import "github.com/umk/paradigms/cmd"

func main() {
	cmd.Execute()
}
