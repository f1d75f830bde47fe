package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joshp123/gobotvac/botvac"
)

// newSession picks the auth variant from the environment: password
// credentials when GOBOTVAC_EMAIL and GOBOTVAC_PASSWORD are set,
// otherwise a stored oauth or passwordless token.
func newSession(vendorName string) botvac.Session {
	vendor := vendorByName(vendorName)

	email := os.Getenv("GOBOTVAC_EMAIL")
	password := os.Getenv("GOBOTVAC_PASSWORD")
	if email != "" && password != "" {
		return botvac.NewPasswordSession(email, password, vendor)
	}

	store := tokenStore()
	if secret := os.Getenv("GOBOTVAC_OAUTH_CLIENT_SECRET"); secret != "" {
		session, err := botvac.NewOAuthSession(botvac.OAuthConfig{
			ClientID:     os.Getenv("GOBOTVAC_OAUTH_CLIENT_ID"),
			ClientSecret: secret,
			RedirectURI:  os.Getenv("GOBOTVAC_OAUTH_REDIRECT_URI"),
			Vendor:       vendor,
			Store:        store,
		})
		if err != nil {
			fatal("session", err)
		}
		return session
	}

	session, err := botvac.NewPasswordlessSession(botvac.PasswordlessConfig{
		Vendor: vendor,
		Store:  store,
	})
	if err != nil {
		fatal("session", err)
	}
	return session
}

func tokenStore() *botvac.FileStore {
	dir, err := os.UserConfigDir()
	if err != nil {
		fatal("config dir", err)
	}
	return botvac.NewFileStore(filepath.Join(dir, "gobotvac", "tokens"))
}

func loginCmd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	vendorName := fs.String("vendor", "neato", "neato or vorwerk")
	_ = fs.Parse(args)

	email := os.Getenv("GOBOTVAC_EMAIL")
	password := os.Getenv("GOBOTVAC_PASSWORD")
	if email == "" || password == "" {
		fatal("login", fmt.Errorf("set GOBOTVAC_EMAIL and GOBOTVAC_PASSWORD"))
	}

	session := botvac.NewPasswordSession(email, password, vendorByName(*vendorName))
	if err := session.Authenticate(ctx); err != nil {
		fatal("login", err)
	}
	fmt.Println("ok")
}

func oauthURLCmd(args []string) {
	fs := flag.NewFlagSet("oauth-url", flag.ExitOnError)
	vendorName := fs.String("vendor", "neato", "neato or vorwerk")
	state := fs.String("state", "", "opaque state passed through the redirect")
	_ = fs.Parse(args)

	session := oauthSession(*vendorName)
	fmt.Println(session.AuthorizationURL(*state))
}

func oauthExchangeCmd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("oauth-exchange", flag.ExitOnError)
	vendorName := fs.String("vendor", "neato", "neato or vorwerk")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		fatal("oauth-exchange", fmt.Errorf("usage: botvac-cli oauth-exchange <redirect-url>"))
	}

	session := oauthSession(*vendorName)
	if err := session.FetchToken(ctx, fs.Arg(0)); err != nil {
		fatal("oauth-exchange", err)
	}
	fmt.Println("token stored")
}

func oauthSession(vendorName string) *botvac.OAuthSession {
	session, err := botvac.NewOAuthSession(botvac.OAuthConfig{
		ClientID:     os.Getenv("GOBOTVAC_OAUTH_CLIENT_ID"),
		ClientSecret: os.Getenv("GOBOTVAC_OAUTH_CLIENT_SECRET"),
		RedirectURI:  os.Getenv("GOBOTVAC_OAUTH_REDIRECT_URI"),
		Vendor:       vendorByName(vendorName),
		Store:        tokenStore(),
	})
	if err != nil {
		fatal("oauth", err)
	}
	return session
}

func otpSendCmd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("otp-send", flag.ExitOnError)
	vendorName := fs.String("vendor", "vorwerk", "neato or vorwerk")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		fatal("otp-send", fmt.Errorf("usage: botvac-cli otp-send <email>"))
	}

	session := passwordlessSession(*vendorName)
	if err := session.SendEmailOTP(ctx, fs.Arg(0)); err != nil {
		fatal("otp-send", err)
	}
	fmt.Println("code sent, check your inbox")
}

func otpLoginCmd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("otp-login", flag.ExitOnError)
	vendorName := fs.String("vendor", "vorwerk", "neato or vorwerk")
	_ = fs.Parse(args)
	if fs.NArg() < 2 {
		fatal("otp-login", fmt.Errorf("usage: botvac-cli otp-login <email> <code>"))
	}

	session := passwordlessSession(*vendorName)
	if err := session.FetchTokenPasswordless(ctx, fs.Arg(0), fs.Arg(1)); err != nil {
		fatal("otp-login", err)
	}
	fmt.Println("token stored")
}

func passwordlessSession(vendorName string) *botvac.PasswordlessSession {
	session, err := botvac.NewPasswordlessSession(botvac.PasswordlessConfig{
		Vendor: vendorByName(vendorName),
		Store:  tokenStore(),
	})
	if err != nil {
		fatal("otp", err)
	}
	return session
}
