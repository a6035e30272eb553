// Command iceberg is the command-line front-end for the iceberg
// versioned key-value store: a thin wrapper over internal/engine that
// never contains storage logic of its own.
package main

func main() {
	Execute()
}
