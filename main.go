package main

import "github.com/DGarbs51/dbplatform/cmd"

func main() {
	cmd.Execute()
}
