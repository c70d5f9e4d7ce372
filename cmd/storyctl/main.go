package main

import "storysynth/internal/cli"

func main() {
	cli.Execute()
}
