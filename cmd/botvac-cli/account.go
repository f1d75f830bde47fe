package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/joshp123/gobotvac/botvac"
)

func robotsCmd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("robots", flag.ExitOnError)
	vendorName := fs.String("vendor", "neato", "neato or vorwerk")
	jsonOutput := fs.Bool("json", false, "emit JSON")
	_ = fs.Parse(args)

	account := botvac.NewAccount(newSession(*vendorName))
	robots, err := account.Robots(ctx)
	if err != nil {
		fatal("list robots", err)
	}

	if *jsonOutput {
		printJSON(robots)
		return
	}
	rows := [][]string{{"NAME", "SERIAL", "MODEL", "FIRMWARE"}}
	for _, robot := range robots {
		rows = append(rows, []string{robot.Name, robot.Serial, robot.Model, robot.Firmware})
	}
	printTable(rows)
}

func mapsCmd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("maps", flag.ExitOnError)
	vendorName := fs.String("vendor", "neato", "neato or vorwerk")
	jsonOutput := fs.Bool("json", false, "emit JSON")
	persistent := fs.Bool("persistent", false, "list persistent maps instead")
	_ = fs.Parse(args)

	account := botvac.NewAccount(newSession(*vendorName))

	var (
		maps map[string][]botvac.MapInfo
		err  error
	)
	if *persistent {
		maps, err = account.PersistentMaps(ctx)
	} else {
		maps, err = account.Maps(ctx)
	}
	if err != nil {
		fatal("list maps", err)
	}

	if *jsonOutput {
		printJSON(maps)
		return
	}
	rows := [][]string{{"SERIAL", "MAP", "GENERATED"}}
	for serial, list := range maps {
		for _, m := range list {
			rows = append(rows, []string{serial, m.ID, m.GeneratedAt})
		}
		if len(list) == 0 {
			rows = append(rows, []string{serial, "(none)", ""})
		}
	}
	printTable(rows)
}

// findRobot resolves a robot command target: explicit serial+secret, or
// account discovery (matching -serial when given, else the first robot).
func findRobot(ctx context.Context, vendorName, serial, secret string) *botvac.Robot {
	vendor := vendorByName(vendorName)
	if serial != "" && secret != "" {
		robot, err := botvac.NewRobot(serial, secret, "", botvac.WithVendor(vendor))
		if err != nil {
			fatal("robot", err)
		}
		return robot
	}

	account := botvac.NewAccount(newSession(vendorName))
	robots, err := account.Robots(ctx)
	if err != nil {
		fatal("discover robots", err)
	}
	if len(robots) == 0 {
		fatal("discover robots", fmt.Errorf("no robots on account"))
	}

	info := robots[0]
	if serial != "" {
		found := false
		for _, candidate := range robots {
			if candidate.Serial == serial {
				info, found = candidate, true
				break
			}
		}
		if !found {
			fatal("discover robots", fmt.Errorf("no robot with serial %s", serial))
		}
	}

	robot, err := botvac.NewRobotFromInfo(info, botvac.WithVendor(vendor))
	if err != nil {
		fatal("robot", err)
	}
	return robot
}
