package main

import "github.com/momeni/gtfs-bounds/cmd/gtfsbounds/command"

func main() {
	command.Execute()
}
