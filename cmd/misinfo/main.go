package main

import "github.com/jedsaxon/misinfodetector/internal/cli/cmd"

func main() {
	cmd.Execute()
}
