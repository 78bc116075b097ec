package main

import "github.com/beanlens/beanlens/cmd"

func main() {
	cmd.Execute()
}
