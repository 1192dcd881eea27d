package main

import (
	"os"

	"github.com/VybCoding/OneWonderLake/cmd/annexctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
