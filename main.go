package main

import "github.com/meysamhadeli/aibundle/cmd"

func main() {
	cmd.Execute()
}
