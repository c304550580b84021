package main

import (
	"fmt"
	"os"
)

const (
	appName = "breathwork"
	appID   = "com.breathwork.app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
