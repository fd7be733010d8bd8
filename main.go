package main

import "github.com/tablerecon/tablerecon/cmd"

func main() {
	cmd.Execute()
}
