// ABOUTME: CLI for managing realmgate `username = password` files
// ABOUTME: Supports add, remove, list and verify against the live auth path

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "add":
		err = cmdAdd(args)
	case "remove":
		err = cmdRemove(args)
	case "list":
		err = cmdList(args)
	case "verify":
		err = cmdVerify(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: realmgate-passwd <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  add <file> <user>      Add a user (prompts for password)")
	fmt.Println("  remove <file> <user>   Remove a user")
	fmt.Println("  list <file>            List users in a password file")
	fmt.Println("  verify <file> <user>   Check a password against the file")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --password VALUE       Password for add/verify (skips the prompt)")
}
