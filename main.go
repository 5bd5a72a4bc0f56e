package main

import (
	"github.com/mittwald/keepdisk/cmd"
)

func main() {
	cmd.Execute()
}
