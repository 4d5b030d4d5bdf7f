package main

import "github.com/George-Ogden/pypianoroll/cmd"

func main() {
	cmd.Execute()
}
