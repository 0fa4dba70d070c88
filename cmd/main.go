// Package main provides the entry point for the chain-engine CLI.
package main

func main() {
	Execute()
}
