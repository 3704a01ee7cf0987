package main

import "github.com/itsmostafa/goturtle/cmd"

func main() {
	cmd.Execute()
}
