package main

import "csslesser/cmd"

func main() {
	cmd.Execute()
}
