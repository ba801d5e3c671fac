// main is the entry point for the driftscan CLI.
package main

import "driftscan/cmd"

func main() {
	cmd.Execute()
}
