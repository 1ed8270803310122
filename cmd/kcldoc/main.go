// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// kcldoc checks schema docstrings against their declarations and renders
// hover documentation.
//
// Usage:
//
//	kcldoc hover -file service.k -line 26 -col 5 [-json]
//	kcldoc lint [-config kcldoc.hcl] [-json] [-diff] FILES...
//	kcldoc watch [-metrics-addr :9464] FILES...
//	kcldoc config init|validate
package main

import (
	"fmt"
	"os"

	"grimm.is/kcldoc/cmd"
	"grimm.is/kcldoc/internal/errors"
)

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(2)
	}
	os.Exit(dispatch(os.Args[1], os.Args[2:]))
}

func dispatch(sub string, args []string) int {
	stdio := cmd.StdIO()
	var err error
	switch sub {
	case "hover":
		err = cmd.RunHover(args, stdio)
	case "lint":
		err = cmd.RunLint(args, stdio)
	case "watch":
		err = cmd.RunWatch(args, stdio)
	case "config":
		err = cmd.RunConfig(args, stdio)
	case "help", "-h", "--help":
		help()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", sub)
		help()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, cmd.ErrLintFailed):
		return 1
	default:
		fmt.Fprintf(os.Stderr, "%s error: %v\n", sub, err)
		return 1
	}
}

func help() {
	fmt.Println("Usage: kcldoc <command> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  hover    Show the documentation at a source position")
	fmt.Println("  lint     Report docstrings that disagree with their declarations")
	fmt.Println("  watch    Re-lint files whenever they change")
	fmt.Println("  config   Create or validate kcldoc.hcl")
}
