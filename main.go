// The main package for the wikiscraper executable.
package main

import (
	"github.com/JakeFAU/wiki-scraper/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
