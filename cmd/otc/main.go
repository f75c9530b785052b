package main

import (
	"github.com/OpenTraceLab/OpenTraceCopper/cmd/otc/cmd"
)

func main() {
	cmd.Execute()
}
