package main

import "github.com/chatsched/chatsched/cmd"

func main() {
	cmd.Execute()
}
