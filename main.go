package main

import "github.com/K0NGR3SS/amazonip/commands"

func main() {
	commands.Execute()
}
