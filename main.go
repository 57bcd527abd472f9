package main

import "github.com/Taichi-iskw/arena-merge/cmd"

func main() {
	cmd.Execute()
}
