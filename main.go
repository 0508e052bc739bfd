package main

import "github.com/khanhnv2901/headerguard/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
