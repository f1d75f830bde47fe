package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joshp123/gobotvac/botvac"
)

func robotCmd(ctx context.Context, command string, args []string) {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	vendorName := fs.String("vendor", "neato", "neato or vorwerk")
	serial := fs.String("serial", "", "robot serial")
	secret := fs.String("secret", "", "robot secret")
	jsonOutput := fs.Bool("json", false, "emit JSON")
	mode := fs.String("mode", "", "cleaning mode: eco or turbo")
	nav := fs.String("nav", "", "navigation mode: normal, extra care, or deep")
	category := fs.String("category", "", "house, spot, or persistent")
	width := fs.Int("width", 0, "spot width in cm")
	height := fs.Int("height", 0, "spot height in cm")
	_ = fs.Parse(args)

	robot := findRobot(ctx, *vendorName, *serial, *secret)

	switch command {
	case "state":
		state, err := robot.State(ctx)
		if err != nil {
			fatal("state", err)
		}
		if *jsonOutput {
			printJSON(state)
			return
		}
		printTable(stateRows(state))
	case "clean":
		state, err := robot.StartCleaning(ctx, botvac.CleaningOptions{
			Mode:           *mode,
			NavigationMode: *nav,
			Category:       *category,
		})
		if err != nil {
			fatal("clean", err)
		}
		reportResult(*jsonOutput, state)
	case "spot":
		state, err := robot.StartSpotCleaning(ctx, botvac.SpotOptions{
			Mode:     *mode,
			WidthCm:  *width,
			HeightCm: *height,
		})
		if err != nil {
			fatal("spot", err)
		}
		reportResult(*jsonOutput, state)
	case "pause":
		state, err := robot.PauseCleaning(ctx)
		reportSimple(*jsonOutput, state, err)
	case "resume":
		state, err := robot.ResumeCleaning(ctx)
		reportSimple(*jsonOutput, state, err)
	case "stop":
		state, err := robot.StopCleaning(ctx)
		reportSimple(*jsonOutput, state, err)
	case "dock":
		state, err := robot.SendToBase(ctx)
		reportSimple(*jsonOutput, state, err)
	case "locate":
		resp, err := robot.Locate(ctx)
		if err != nil {
			fatal("locate", err)
		}
		fmt.Println(resp.Result)
	case "schedule":
		scheduleCmd(ctx, robot, *jsonOutput, fs.Args())
	}
}

func scheduleCmd(ctx context.Context, robot *botvac.Robot, jsonOutput bool, args []string) {
	if len(args) == 0 {
		enabled, err := robot.ScheduleEnabled(ctx)
		if err != nil {
			fatal("schedule", err)
		}
		if jsonOutput {
			printJSON(map[string]bool{"enabled": enabled})
			return
		}
		if enabled {
			fmt.Println("schedule: on")
		} else {
			fmt.Println("schedule: off")
		}
		return
	}

	var enable bool
	switch args[0] {
	case "on":
		enable = true
	case "off":
		enable = false
	default:
		fatal("schedule", fmt.Errorf("usage: botvac-cli schedule [on|off]"))
	}
	if err := robot.SetScheduleEnabled(ctx, enable); err != nil {
		fatal("schedule", err)
	}
	fmt.Println("ok")
}

func reportSimple(jsonOutput bool, state *botvac.RobotState, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "command: %v\n", err)
		os.Exit(1)
	}
	reportResult(jsonOutput, state)
}

func reportResult(jsonOutput bool, state *botvac.RobotState) {
	if jsonOutput {
		printJSON(state)
		return
	}
	fmt.Printf("%s (state: %s)\n", state.Result, state.StateName())
}
