package main

import "animelog/cmd/cli/command"

func main() {
	command.Execute()
}
