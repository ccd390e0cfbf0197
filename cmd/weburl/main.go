package main

import "github.com/shiroyk/weburl/cmd"

func main() {
	cmd.Execute()
}
