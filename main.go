package main

import "github.com/mager/chordlegend/cmd"

func main() {
	cmd.Execute()
}
