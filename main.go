package main

import "github.com/hydromesh/godtmw/cmd"

func main() {
	cmd.Execute()
}
