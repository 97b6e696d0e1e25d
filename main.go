package main

import "github.com/samuelfneumann/wirefit/cmd"

func main() {
	cmd.Execute()
}
