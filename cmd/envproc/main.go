package main

import "github.com/pavlenkoa/envproc/internal/command"

func main() {
	command.Execute()
}
