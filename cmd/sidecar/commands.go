package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/electricsidecar/sidecar/pkg/cli"
	"github.com/electricsidecar/sidecar/pkg/connect"
	"github.com/electricsidecar/sidecar/pkg/store"
)

var (
	ErrCommandLineArgs = errors.New("invalid command line arguments")
	ErrUnknownCommand  = errors.New("unrecognized command")
	ErrRequiresVIN     = errors.New("command requires a VIN")
	ErrCommandFailed   = errors.New("vehicle reported command failure")
)

type Argument struct {
	name string
	help string
}

type Handler func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error

type Command struct {
	help          string
	requiresStore bool // True if command talks to the vehicle-cloud API
	requiresVIN   bool
	args          []Argument
	optional      []Argument
	handler       Handler
}

func checkReadiness(commandName string, haveVIN bool) (*Command, error) {
	info, ok := commands[commandName]
	if !ok {
		return nil, ErrUnknownCommand
	}
	if info.requiresVIN && !haveVIN {
		return nil, ErrRequiresVIN
	}
	return info, nil
}

func execute(ctx context.Context, config *cli.Config, vehicles *store.Store, args []string) error {
	if len(args) == 0 {
		return errors.New("missing COMMAND")
	}

	info, err := checkReadiness(args[0], config.VIN != "")
	if err != nil {
		return err
	}
	if info.requiresStore && vehicles == nil {
		return cli.ErrNoCredentials
	}

	if len(args)-1 < len(info.args) || len(args)-1 > len(info.args)+len(info.optional) {
		writeErr("Invalid number of command line arguments: %d (%d required, %d optional).", len(args), len(info.args), len(info.optional))
		err = ErrCommandLineArgs
	} else {
		keywords := make(map[string]string)
		for i, argInfo := range info.args {
			keywords[argInfo.name] = args[i+1]
		}
		index := len(info.args) + 1
		for _, argInfo := range info.optional {
			if index >= len(args) {
				break
			}
			keywords[argInfo.name] = args[index]
			index++
		}
		err = info.handler(ctx, config, vehicles, keywords)
	}

	// Print command-specific help
	if errors.Is(err, ErrCommandLineArgs) {
		info.Usage(args[0])
	}
	return err
}

func (c *Command) Usage(name string) {
	fmt.Printf("Usage: %s", name)
	maxLength := 0
	for _, arg := range c.args {
		fmt.Printf(" %s", arg.name)
		if len(arg.name) > maxLength {
			maxLength = len(arg.name)
		}
	}
	if len(c.optional) > 0 {
		fmt.Printf(" [")
	}
	for _, arg := range c.optional {
		fmt.Printf(" %s", arg.name)
		if len(arg.name) > maxLength {
			maxLength = len(arg.name)
		}
	}
	if len(c.optional) > 0 {
		fmt.Printf(" ]")
	}
	fmt.Printf("\n%s\n", c.help)
	maxLength++
	for _, arg := range c.args {
		fmt.Printf("    %s:%s%s\n", arg.name, strings.Repeat(" ", maxLength-len(arg.name)), arg.help)
	}
	for _, arg := range c.optional {
		fmt.Printf("    %s:%s%s\n", arg.name, strings.Repeat(" ", maxLength-len(arg.name)), arg.help)
	}
}

// awaitCommand polls the remote until an accepted command reaches a terminal state.
func awaitCommand(ctx context.Context, vehicles *store.Store, vin string, accepted *connect.RemoteCommandAccepted) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		status, err := vehicles.CommandStatus(ctx, vin, accepted)
		if err != nil {
			return err
		}
		switch status.Status {
		case connect.CommandSuccess:
			return nil
		case connect.CommandFailure:
			return ErrCommandFailed
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func printStatus(status *connect.Status) {
	if locked, known := status.IsLocked(); known {
		if locked {
			fmt.Println("Locked:   yes")
		} else {
			fmt.Println("Locked:   no")
		}
	} else {
		fmt.Printf("Locked:   unknown (%s)\n", status.OverallLockStatus)
	}
	fmt.Printf("Battery:  %.0f%%\n", status.BatteryLevel.Value)
	fmt.Printf("Mileage:  %.0f %s\n", status.Mileage.Value, status.Mileage.Unit)
	if r := status.RemainingRanges.ElectricalRange.Distance; r != nil {
		fmt.Printf("Range:    %.0f %s\n", r.Value, r.Unit)
	}
}

func printEmobility(emobility *connect.Emobility) {
	charge := emobility.BatteryChargeStatus
	fmt.Printf("Charge:   %d%%\n", charge.StateOfChargeInPercentage)
	fmt.Printf("Charging: %s\n", charge.ChargingState)
	fmt.Printf("Plug:     %s\n", charge.PlugState)
	if remaining := charge.RemainingChargeTimeUntil100PercentInMinutes; remaining != nil {
		fmt.Printf("Full in:  %d minutes\n", *remaining)
	}
}

func printPosition(position *connect.Position) {
	fmt.Printf("Position: %f, %f (heading %.0f)\n",
		position.CarCoordinate.Latitude, position.CarCoordinate.Longitude, position.Heading)
}

var commands = map[string]*Command{
	"login": &Command{
		help:          "Verify the account credentials and save the password to the system keyring",
		requiresStore: false,
		handler: func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error {
			password, err := config.AccountPassword()
			if err != nil {
				password, err = config.PromptForAccountPassword()
				if err != nil {
					return err
				}
			}
			client, err := config.Client()
			if err != nil {
				return err
			}
			token, err := client.Login(ctx)
			if err != nil {
				return err
			}
			if subject, err := token.Subject(); err == nil && subject != "" {
				fmt.Printf("Logged in as %s\n", subject)
			} else {
				fmt.Println("Logged in")
			}
			if err := config.SavePasswordToKeyring(password); err != nil {
				writeErr("Warning: could not save password to keyring: %s", err)
			}
			return nil
		},
	},
	"logout": &Command{
		help:          "Remove the account password from the system keyring",
		requiresStore: false,
		handler: func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error {
			if err := config.DeletePasswordFromKeyring(); err != nil && !errors.Is(err, cli.ErrKeyNotFound) {
				return err
			}
			return nil
		},
	},
	"vehicles": &Command{
		help:          "List the vehicles attached to the account",
		requiresStore: true,
		handler: func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error {
			list, err := vehicles.VehicleList(ctx, false)
			if err != nil {
				return err
			}
			for _, vehicle := range list {
				fmt.Printf("%s  %s (%s)\n", vehicle.VIN, vehicle.ModelDescription, vehicle.ModelYear)
			}
			return nil
		},
	},
	"summary": &Command{
		help:          "Show the vehicle nickname and model",
		requiresStore: true,
		requiresVIN:   true,
		handler: func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error {
			summary, err := vehicles.Summary(ctx, config.VIN, false)
			if err != nil {
				return err
			}
			if summary.NickName != nil {
				fmt.Printf("%s (%s)\n", *summary.NickName, summary.ModelDescription)
			} else {
				fmt.Println(summary.ModelDescription)
			}
			return nil
		},
	},
	"status": &Command{
		help:          "Show the stored vehicle status",
		requiresStore: true,
		requiresVIN:   true,
		handler: func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error {
			status, err := vehicles.Status(ctx, config.VIN, false)
			if err != nil {
				return err
			}
			printStatus(status)
			return nil
		},
	},
	"charge": &Command{
		help:          "Show the battery and charging state",
		requiresStore: true,
		requiresVIN:   true,
		handler: func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error {
			emobility, err := vehicles.Emobility(ctx, config.VIN, false)
			if err != nil {
				return err
			}
			printEmobility(emobility)
			return nil
		},
	},
	"position": &Command{
		help:          "Show the last known vehicle location",
		requiresStore: true,
		requiresVIN:   true,
		handler: func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error {
			position, err := vehicles.Position(ctx, config.VIN, false)
			if err != nil {
				return err
			}
			printPosition(position)
			return nil
		},
	},
	"capabilities": &Command{
		help:          "Show the vehicle feature set",
		requiresStore: true,
		requiresVIN:   true,
		handler: func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error {
			capabilities, err := vehicles.Capabilities(ctx, config.VIN, false)
			if err != nil {
				return err
			}
			fmt.Printf("Model:    %s\n", capabilities.CarModel)
			fmt.Printf("Engine:   %s\n", capabilities.EngineType)
			return nil
		},
	},
	"refresh": &Command{
		help:          "Refresh status, charge, and position together and print the results",
		requiresStore: true,
		requiresVIN:   true,
		optional: []Argument{
			Argument{name: "FORCE", help: "Pass 'force' to bypass fresh cache entries."},
		},
		handler: func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error {
			ignoreCache := args["FORCE"] == "force"
			vehicles.Refresh(ctx, config.VIN, ignoreCache)

			var failures []error
			if state := vehicles.StatusStream(config.VIN).Current(); state.Err != nil {
				failures = append(failures, state.Err)
			} else if state.Value != nil {
				printStatus(state.Value)
			}
			if state := vehicles.EmobilityStream(config.VIN).Current(); state.Err != nil {
				failures = append(failures, state.Err)
			} else if state.Value != nil {
				printEmobility(state.Value)
			}
			if state := vehicles.PositionStream(config.VIN).Current(); state.Err != nil {
				failures = append(failures, state.Err)
			} else if state.Value != nil {
				printPosition(state.Value)
			}
			return errors.Join(failures...)
		},
	},
	"lock": &Command{
		help:          "Lock the vehicle and wait for confirmation",
		requiresStore: true,
		requiresVIN:   true,
		handler: func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error {
			accepted, err := vehicles.Lock(ctx, config.VIN)
			if err != nil {
				return err
			}
			return awaitCommand(ctx, vehicles, config.VIN, accepted)
		},
	},
	"unlock": &Command{
		help:          "Unlock the vehicle and wait for confirmation",
		requiresStore: true,
		requiresVIN:   true,
		args: []Argument{
			Argument{name: "PIN", help: "Account security PIN."},
		},
		handler: func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error {
			accepted, err := vehicles.Unlock(ctx, config.VIN, args["PIN"])
			if err != nil {
				return err
			}
			return awaitCommand(ctx, vehicles, config.VIN, accepted)
		},
	},
	"flash": &Command{
		help:          "Flash the vehicle's indicators to help find it",
		requiresStore: true,
		requiresVIN:   true,
		handler: func(ctx context.Context, config *cli.Config, vehicles *store.Store, args map[string]string) error {
			return vehicles.Flash(ctx, config.VIN)
		},
	},
}
