package main

import (
	"rental-inventory/cmd"
)

func main() {
	cmd.Execute()
}
