package main

import (
	"log"

	"github.com/ibc-ferry/ferry/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
