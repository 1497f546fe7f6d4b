package main

import (
	"os"

	"github.com/PhilCANDIDO/IAM-AD/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
