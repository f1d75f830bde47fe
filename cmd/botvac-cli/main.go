package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joshp123/gobotvac/botvac"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "login":
		loginCmd(ctx, os.Args[2:])
	case "oauth-url":
		oauthURLCmd(os.Args[2:])
	case "oauth-exchange":
		oauthExchangeCmd(ctx, os.Args[2:])
	case "otp-send":
		otpSendCmd(ctx, os.Args[2:])
	case "otp-login":
		otpLoginCmd(ctx, os.Args[2:])
	case "robots":
		robotsCmd(ctx, os.Args[2:])
	case "maps":
		mapsCmd(ctx, os.Args[2:])
	case "state", "clean", "spot", "pause", "resume", "stop", "dock", "locate", "schedule":
		robotCmd(ctx, os.Args[1], os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func vendorByName(name string) botvac.Vendor {
	switch name {
	case "", "neato":
		return botvac.Neato()
	case "vorwerk":
		return botvac.Vorwerk()
	default:
		fatal("vendor", fmt.Errorf("unknown vendor %q", name))
		return botvac.Vendor{}
	}
}

func usage() {
	fmt.Println("botvac-cli <command> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  login                      verify GOBOTVAC_EMAIL/GOBOTVAC_PASSWORD credentials")
	fmt.Println("  oauth-url                  print the browser authorization URL")
	fmt.Println("  oauth-exchange <redirect>  exchange the redirect URL for a token")
	fmt.Println("  otp-send <email>           send a one-time code (vorwerk)")
	fmt.Println("  otp-login <email> <code>   exchange the code for a token")
	fmt.Println("  robots                     list robots on the account")
	fmt.Println("  maps                       list maps per robot")
	fmt.Println("  state                      print live robot state")
	fmt.Println("  clean | spot               start house or spot cleaning")
	fmt.Println("  pause | resume | stop      cleaning controls")
	fmt.Println("  dock                       send the robot to its base")
	fmt.Println("  locate                     play the find-me chime")
	fmt.Println("  schedule [on|off]          show or set the schedule flag")
	fmt.Println("")
	fmt.Println("Robot commands take -serial and -secret, or discover the")
	fmt.Println("first robot on the account when both are omitted.")
}

func fatal(action string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", action, err)
	os.Exit(1)
}
