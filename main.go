package main

import "github.com/mabhi256/cgdiag/cmd"

func main() {
	cmd.Execute()
}
