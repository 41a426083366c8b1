package main

import "github.com/keshon/jukebox/internal/cli"

func main() {
	cli.Execute()
}
