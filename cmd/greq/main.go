package main

import "github.com/achikmagic/greq/cmd/greq/cmd"

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
