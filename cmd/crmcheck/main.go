// Package main is crmcheck, an operator tool for checking the EspoCRM
// connection the lead bridge uses.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
