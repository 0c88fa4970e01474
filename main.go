package main

import "github.com/zhubert/taskflow/cmd"

func main() {
	cmd.Execute()
}
