package main

import "ytls/cmd"

// main is the entry point for the ytls CLI application.
//
// This application lists the full contents of a YouTube playlist by scraping
// the playlist page and following the continuation chain, without using an
// official API.
func main() {
	cmd.Execute()
}
