package main

import (
	"os"

	"github.com/AlphaTech-Explore/Short-Gen-AI-V5/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
