package main

import "github.com/example/livedict/cmd"

func main() {
	cmd.Execute()
}
