package main

import "github.com/anonto42/nano-midea/social/cmd/server/commands"

func main() {
	commands.Execute()
}
