package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/electricsidecar/sidecar/internal/log"
	"github.com/electricsidecar/sidecar/pkg/cli"
	"github.com/electricsidecar/sidecar/pkg/connect"
	"github.com/electricsidecar/sidecar/pkg/store"
)

func writeErr(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n")
}

const usage = `
 * Vehicle commands require a VIN (-vin or $SIDECAR_VIN) and account credentials.
 * Run 'login' once to enroll the account password in the system keyring.`

func Usage() {
	fmt.Printf("Usage: %s [OPTION...] COMMAND [ARG...]\n", os.Args[0])
	fmt.Printf("\nRun %s help COMMAND for more information. Valid COMMANDs are listed below.", os.Args[0])
	fmt.Println("")
	fmt.Println(usage)
	fmt.Println("")

	fmt.Printf("Available OPTIONs:\n")
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Printf("Available COMMANDs:\n")
	maxLength := 0
	var labels []string
	for command := range commands {
		labels = append(labels, command)
		if len(command) > maxLength {
			maxLength = len(command)
		}
	}
	sort.Strings(labels)
	for _, command := range labels {
		info := commands[command]
		fmt.Printf("  %s%s %s\n", command, strings.Repeat(" ", maxLength-len(command)), info.help)
	}
}

func runCommand(config *cli.Config, vehicles *store.Store, args []string, timeout time.Duration) int {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := execute(ctx, config, vehicles, args); err != nil {
		if errors.Is(err, connect.ErrAuthentication) {
			writeErr("Authentication failed. Check the account credentials and run 'login' again.")
		} else if connect.Temporary(err) {
			writeErr("Temporary failure, try again: %s", err)
		} else {
			writeErr("Failed to execute command: %s", err)
		}
		return 1
	}
	return 0
}

func runInteractiveShell(config *cli.Config, vehicles *store.Store, timeout time.Duration) int {
	scanner := bufio.NewScanner(os.Stdin)
	for fmt.Printf("> "); scanner.Scan(); fmt.Printf("> ") {
		args, err := shlex.Split(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			return 0
		}
		if err != nil {
			writeErr("Invalid command: %s", err)
			continue
		}
		runCommand(config, vehicles, args, timeout)
	}
	if err := scanner.Err(); err != nil {
		writeErr("Error reading command: %s", err)
		return 1
	}
	return 0
}

func main() {
	status := 1
	defer func() {
		os.Exit(status)
	}()

	var (
		debug          bool
		commandTimeout time.Duration
	)
	config, err := cli.NewConfig(cli.FlagAll)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load credential configuration: %s\n", err)
		os.Exit(1)
	}
	flag.Usage = Usage
	flag.BoolVar(&debug, "debug", false, "Enable verbose debugging messages")
	flag.DurationVar(&commandTimeout, "command-timeout", 30*time.Second, "Set timeout for commands sent to the vehicle-cloud API.")

	config.RegisterCommandLineFlags()
	flag.Parse()
	if !debug {
		if debugEnv, ok := os.LookupEnv("SIDECAR_VERBOSE"); ok {
			debug = debugEnv != "false" && debugEnv != "0"
		}
	}
	if debug {
		log.SetLevel(log.LevelDebug)
	}
	config.ReadFromEnvironment()

	args := flag.Args()
	var info *Command
	if len(args) > 0 {
		if args[0] == "help" {
			if len(args) == 1 {
				Usage()
				return
			}
			helpInfo, ok := commands[args[1]]
			if !ok {
				writeErr("Unrecognized command: %s", args[1])
				return
			}
			helpInfo.Usage(args[1])
			status = 0
			return
		}
		info, err = checkReadiness(args[0], config.VIN != "")
		if err != nil {
			writeErr("Error: %s", err)
			return
		}
	}

	// The interactive shell may run any command, so it gets a store up front. Single commands only
	// need one when they talk to the API; login and logout manage credentials without one.
	var vehicles *store.Store
	if info == nil || info.requiresStore {
		vehicles, err = config.Connect()
		if err != nil && !(info == nil && errors.Is(err, cli.ErrNoCredentials)) {
			writeErr("Error: %s", err)
			return
		}
	}

	if len(args) > 0 {
		status = runCommand(config, vehicles, args, commandTimeout)
	} else {
		status = runInteractiveShell(config, vehicles, commandTimeout)
	}
}
