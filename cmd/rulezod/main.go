package main

import (
	"fmt"
	"os"

	"github.com/erraggy/rulezod"
	"github.com/erraggy/rulezod/cmd/rulezod/commands"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	command := args[0]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("rulezod %s\n", rulezod.BuildInfo())
		return 0
	case "help", "-h", "--help":
		printUsage()
		return 0
	case "generate":
		err = commands.HandleGenerate(args[1:])
	case "inspect":
		err = commands.HandleInspect(args[1:])
	case "mcp":
		err = commands.HandleMCP(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		return 1
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

var commandNames = []string{"generate", "inspect", "mcp", "version", "help"}

// suggestCommand returns the command within two edits of input, or "".
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`rulezod - Validation Rule to Zod Schema Compiler

Usage:
  rulezod <command> [options]

Commands:
  generate    Compile a class manifest into Zod schemas
  inspect     Show how the rules of each class resolve
  mcp         Serve generate and inspect as MCP tools over stdio
  version     Show version information
  help        Show this help message

Examples:
  rulezod generate classes.yaml > resources/js/schemas.ts
  rulezod generate --split -o resources/js/schemas classes.yaml
  rulezod inspect -format json classes.yaml

Run 'rulezod <command> --help' for more information on a command.`)
}
