package main

import "github.com/Prashantramappa/qwen-chat-personal/cmd"

func main() {
	cmd.Execute()
}
