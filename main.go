package main

import "prime-sync/cmd"

func main() {
	cmd.Execute()
}
