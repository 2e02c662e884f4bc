package main

import "github.com/OpenTraceLab/OpenTraceSMPS/cmd/smps/cmd"

func main() {
	cmd.Execute()
}
