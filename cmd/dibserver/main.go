package main

import (
	"fmt"
	"log"
	"os"
)

func init() {
	log.SetFlags(log.Flags() | log.Lshortfile)
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dibserver:", err)
		os.Exit(1)
	}
}
