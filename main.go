package main

import "github.com/mystylekpop/snsbot/cmd"

func main() {
	cmd.Execute()
}
