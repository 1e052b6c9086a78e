package main

import "github.com/masmgr/gamerules/cmd"

func main() {
	cmd.Run()
}
