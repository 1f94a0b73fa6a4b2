package main

import "github.com/Mohsinsiddi/gasmon/cmd"

func main() {
	cmd.Execute()
}
