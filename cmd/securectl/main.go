package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ruteri/secure-date-gateway/api"
	"github.com/ruteri/secure-date-gateway/api/clients"
	"github.com/ruteri/secure-date-gateway/api/keyshandler"
	"github.com/ruteri/secure-date-gateway/api/mailhandler"
	"github.com/ruteri/secure-date-gateway/cmd/flags"
	"github.com/ruteri/secure-date-gateway/securedate"
	"github.com/urfave/cli/v2"
)

var flagSecret = &cli.StringFlag{
	Name:    "secret",
	Usage:   "shared secret",
	EnvVars: []string{"SHARED_SECRET"},
}
var flagAdminSecret = &cli.StringFlag{
	Name:    "admin-secret",
	Usage:   "admin secret, defaults to the shared secret",
	EnvVars: []string{"ADMIN_SECRET"},
}
var flagScheme = &cli.StringFlag{
	Name:    "scheme",
	Value:   securedate.SchemePhrase,
	Usage:   "credential scheme: phrase or date-distance",
	EnvVars: []string{"SECURE_SCHEME"},
}
var flagKeyDerivation = &cli.StringFlag{
	Name:    "key-derivation",
	Value:   string(securedate.KeySecretBound),
	Usage:   "phrase key derivation: secret-bound or date-padded",
	EnvVars: []string{"KEY_DERIVATION"},
}
var flagPhrase = &cli.StringFlag{
	Name:    "phrase",
	Value:   securedate.DefaultVerificationPhrase,
	EnvVars: []string{"VERIFICATION_PHRASE"},
}
var flagTimeZone = &cli.StringFlag{
	Name:    "tz",
	Value:   "Local",
	Usage:   "time zone the credential date is computed in",
	EnvVars: []string{"TZ_NAME"},
}
var flagHeader = &cli.StringFlag{
	Name:    "header",
	Value:   "x-secure-date",
	EnvVars: []string{"SECURE_HEADER"},
}
var flagTimeout = &cli.DurationFlag{
	Name:  "timeout",
	Value: 30 * time.Second,
}

var schemeFlags = []cli.Flag{
	flagSecret,
	flagScheme,
	flagKeyDerivation,
	flagPhrase,
	flagTimeZone,
}

var clientFlags = append([]cli.Flag{
	flags.GatewayURLFlag,
	flagHeader,
	flagTimeout,
}, schemeFlags...)

func main() {
	app := &cli.App{
		Name:  "securectl",
		Usage: "Client for the secure date gateway",
		Commands: []*cli.Command{
			{
				Name:  "token",
				Usage: "print a credential for today or for --date",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "YYYYMMDD, defaults to today"},
				}, schemeFlags...),
				Action: func(cCtx *cli.Context) error {
					scheme, loc, err := newScheme(cCtx, cCtx.String(flagSecret.Name), keyDerivation(cCtx))
					if err != nil {
						return err
					}

					now := time.Now()
					if date := cCtx.String("date"); date != "" {
						now, err = securedate.ParseDateToken(date, loc)
						if err != nil {
							return err
						}
					}

					credential, err := scheme.Encode(now)
					if err != nil {
						return err
					}
					fmt.Println(credential)
					return nil
				},
			},
			{
				Name:  "get-keys",
				Usage: "fetch the disclosed keys",
				Flags: clientFlags,
				Action: func(cCtx *cli.Context) error {
					creds, err := newCredentials(cCtx, cCtx.String(flagSecret.Name), keyDerivation(cCtx))
					if err != nil {
						return err
					}

					client := keyshandler.NewClient(cCtx.String(flags.GatewayURLFlag.Name), creds)
					client.HTTPClient = &http.Client{Timeout: cCtx.Duration(flagTimeout.Name)}

					keys, err := client.FetchKeys(cCtx.Context)
					if err != nil {
						return err
					}
					return printJSON(keys)
				},
			},
			{
				Name:  "send-email",
				Usage: "ask the gateway to send a message",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "to", Required: true},
					&cli.StringFlag{Name: "subject", Required: true},
					&cli.StringFlag{Name: "text"},
					&cli.StringFlag{Name: "html"},
				}, clientFlags...),
				Action: func(cCtx *cli.Context) error {
					creds, err := newCredentials(cCtx, cCtx.String(flagSecret.Name), keyDerivation(cCtx))
					if err != nil {
						return err
					}

					client := mailhandler.NewClient(cCtx.String(flags.GatewayURLFlag.Name), creds)
					client.HTTPClient = &http.Client{Timeout: cCtx.Duration(flagTimeout.Name)}

					resp, err := client.SendEmail(cCtx.Context, api.SendEmailRequest{
						To:      cCtx.String("to"),
						Subject: cCtx.String("subject"),
						Text:    cCtx.String("text"),
						HTML:    cCtx.String("html"),
					})
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:  "admin",
				Usage: "toggle or inspect gateway availability",
				Subcommands: []*cli.Command{
					adminCommand("enable", "serve protected routes", (*clients.AdminClient).Enable),
					adminCommand("disable", "answer protected routes with 503", (*clients.AdminClient).Disable),
					adminCommand("status", "print current availability", (*clients.AdminClient).Status),
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type adminAction func(*clients.AdminClient, context.Context) (*api.StatusResponse, error)

func adminCommand(name, usage string, action adminAction) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: append([]cli.Flag{flagAdminSecret}, clientFlags...),
		Action: func(cCtx *cli.Context) error {
			secret := cCtx.String(flagAdminSecret.Name)
			if secret == "" {
				secret = cCtx.String(flagSecret.Name)
			}

			// The admin gate never accepts date-padded keys
			creds, err := newCredentials(cCtx, secret, securedate.KeySecretBound)
			if err != nil {
				return err
			}

			client := clients.NewAdminClient(cCtx.String(flags.GatewayURLFlag.Name), creds, cCtx.Duration(flagTimeout.Name))
			status, err := action(client, cCtx.Context)
			if err != nil {
				return err
			}
			return printJSON(status)
		},
	}
}

func keyDerivation(cCtx *cli.Context) securedate.KeyDerivation {
	return securedate.KeyDerivation(cCtx.String(flagKeyDerivation.Name))
}

func newScheme(cCtx *cli.Context, secret string, kd securedate.KeyDerivation) (securedate.Scheme, *time.Location, error) {
	if secret == "" {
		return nil, nil, errors.New("no secret given, set --secret or SHARED_SECRET")
	}

	loc := time.Local
	if tz := cCtx.String(flagTimeZone.Name); tz != "" && !strings.EqualFold(tz, "Local") {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, nil, err
		}
	}

	scheme, err := securedate.NewScheme(cCtx.String(flagScheme.Name), securedate.Options{
		Secret:        []byte(secret),
		Phrase:        cCtx.String(flagPhrase.Name),
		Location:      loc,
		KeyDerivation: kd,
	})
	return scheme, loc, err
}

func newCredentials(cCtx *cli.Context, secret string, kd securedate.KeyDerivation) (*api.Credentials, error) {
	scheme, _, err := newScheme(cCtx, secret, kd)
	if err != nil {
		return nil, err
	}
	return &api.Credentials{Scheme: scheme, Header: cCtx.String(flagHeader.Name)}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
