package main

import "github.com/adanyl0v/go-todo-agent/cmd/todo-agent/commands"

func main() {
	commands.Execute()
}
