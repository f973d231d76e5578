package main

import "github.com/ValentinKolb/mredis/cmd"

func main() {
	cmd.Execute()
}
