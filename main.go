package main

import "github.com/papapumpkin/kala/cmd"

func main() {
	cmd.Execute()
}
