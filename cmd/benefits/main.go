/*
main.go - Command-line client for the benefits roster

PURPOSE:
  Works on the same storage the server uses, without the server running.
  Configuration comes from the environment exactly as for cmd/server.

COMMANDS:
  list [--query Q] [--page N] [--limit N]   Employees with yearly cost
  summary [--query Q]                       Roll-up across the roster
  costs ID                                  Cost breakdown of one employee
  add NAME [--dependent NAME]...            Add an employee
  remove ID                                 Remove an employee
  scenarios                                 List demo scenarios
  load-scenario ID                          Replace the roster with a scenario

EXAMPLES:
  STORAGE_BACKEND=file DATA_DIR=./data benefits list --query ali
  benefits add "Alice Adams" --dependent "Aaron Adams"
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	root, c := newRootCmd()
	err := root.Execute()
	if cerr := c.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
