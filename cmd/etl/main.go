// Command etl runs the registration import batch and its maintenance tasks.
package main

import "os"

func main() {
	os.Exit(runCLI(os.Args[1:], os.Stdout, os.Stderr))
}
