package main

import "github.com/Mohsinsiddi/dappos/cmd"

func main() {
	cmd.Execute()
}
