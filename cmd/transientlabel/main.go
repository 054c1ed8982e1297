// Package main provides the transientlabel command line client.
package main

func main() {
	Execute()
}
