package main

import "studyclock/cmd/commands"

func main() {
	commands.Execute()
}
