package main

import (
	"oilwatcher/internal/cli"
)

func main() {
	cli.Execute()
}
