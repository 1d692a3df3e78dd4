package main

import "github.com/rhyrak/go-timetable/cmd/timetable/commands"

func main() {
	commands.Execute()
}
