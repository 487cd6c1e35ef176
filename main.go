package main

import "github.com/KaramelBytes/findex-cli/cmd"

func main() {
	cmd.Execute()
}
