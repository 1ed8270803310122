// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package cmd

import (
	"fmt"
	"os"

	"grimm.is/kcldoc/internal/config"
	"grimm.is/kcldoc/internal/errors"
)

// RunConfig implements 'kcldoc config'.
func RunConfig(args []string, stdio IO) error {
	if len(args) < 1 {
		printConfigUsage(stdio)
		return nil
	}

	command := args[0]
	subArgs := args[1:]

	switch command {
	case "init":
		return runConfigInit(subArgs, stdio)
	case "validate":
		return runConfigValidate(subArgs, stdio)
	case "help":
		printConfigUsage(stdio)
		return nil
	default:
		return errors.Errorf(errors.KindValidation, "unknown command: %s", command)
	}
}

func printConfigUsage(stdio IO) {
	fmt.Fprintln(stdio.Out, "Usage: kcldoc config <command> [args]")
	fmt.Fprintln(stdio.Out, "")
	fmt.Fprintln(stdio.Out, "Commands:")
	fmt.Fprintln(stdio.Out, "  init       Write the default configuration")
	fmt.Fprintln(stdio.Out, "  validate   Check a configuration file")
}

func runConfigInit(args []string, stdio IO) error {
	fs := newFlagSet("init", stdio)
	output := fs.String("output", "", "Output file (default: stdout)")
	force := fs.Bool("force", false, "Overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data := config.Encode(config.DefaultConfig())
	if *output == "" {
		_, err := stdio.Out.Write(data)
		return err
	}
	if _, err := os.Stat(*output); err == nil && !*force {
		return errors.Errorf(errors.KindValidation, "%s already exists (use -force to overwrite)", *output)
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		return errors.Wrapf(err, errors.KindInternal, "failed to write %s", *output)
	}
	fmt.Fprintf(stdio.Out, "Generated %s\n", *output)
	return nil
}

func runConfigValidate(args []string, stdio IO) error {
	fs := newFlagSet("validate", stdio)
	cfgPath := fs.String("config", config.DefaultFilename, "Configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := config.Load(*cfgPath); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			fmt.Fprintf(stdio.Out, "%s\n", StyleError.Render(fmt.Sprintf("✗ %s has %d errors:", *cfgPath, len(verrs))))
			for _, v := range verrs {
				fmt.Fprintf(stdio.Out, "  - %s\n", v.Error())
			}
		}
		return err
	}
	fmt.Fprintln(stdio.Out, StyleOK.Render(fmt.Sprintf("✓ %s is valid", *cfgPath)))
	return nil
}
