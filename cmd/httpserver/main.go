package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ruteri/secure-date-gateway/api/keyshandler"
	"github.com/ruteri/secure-date-gateway/api/mailhandler"
	"github.com/ruteri/secure-date-gateway/availability"
	"github.com/ruteri/secure-date-gateway/cmd/flags"
	"github.com/ruteri/secure-date-gateway/common"
	"github.com/ruteri/secure-date-gateway/config"
	"github.com/ruteri/secure-date-gateway/gate"
	"github.com/ruteri/secure-date-gateway/httpserver"
	"github.com/ruteri/secure-date-gateway/interfaces"
	"github.com/ruteri/secure-date-gateway/mailer"
	"github.com/ruteri/secure-date-gateway/metrics"
	"github.com/ruteri/secure-date-gateway/securedate"
	"github.com/ruteri/secure-date-gateway/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "secure-date-gateway",
		Usage: "Serve secrets to callers holding a date-bound credential",
		Flags: append([]cli.Flag{
			flags.ListenAddrFlag,
			flags.LogServiceFlagFn("secure-date-gateway"),
		}, flags.CommonFlags...),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			cfg, err := config.Load()
			if err != nil {
				logger.Error("Invalid configuration", "err", err)
				return err
			}

			m := metrics.NewMetrics(common.PackageName)

			opts, err := cfg.SchemeOptions()
			if err != nil {
				return err
			}
			scheme, err := securedate.NewScheme(cfg.Scheme, opts)
			if err != nil {
				logger.Error("Failed to create verification scheme", "err", err)
				return err
			}

			adminOpts, err := cfg.AdminSchemeOptions()
			if err != nil {
				return err
			}
			adminScheme, err := securedate.NewScheme(cfg.Scheme, adminOpts)
			if err != nil {
				logger.Error("Failed to create admin verification scheme", "err", err)
				return err
			}

			if cfg.Scheme == securedate.SchemePhrase && opts.KeyDerivation == securedate.KeyDatePadded {
				logger.Warn("KEY_DERIVATION=date-padded ignores the shared secret on API routes; anyone who knows the scheme can produce credentials for them")
			}
			if cfg.AdminSecretShared() {
				logger.Warn("ADMIN_SECRET not set, admin routes accept the shared secret")
			}
			logger.Info("Verification configured",
				"scheme", scheme.Name(),
				"skewDays", opts.SkewDays,
				"timeZone", opts.Location.String(),
				"header", cfg.SecureHeader)

			var keys interfaces.KeyStore
			locations, err := storage.ParseLocations(cfg.KeySources)
			if err != nil {
				return err
			}
			keys, err = storage.NewKeyStoreFactory(logger).CreateMultiKeyStore(locations)
			if err != nil {
				logger.Warn("No usable key sources, key disclosure will fail", "err", err)
			} else {
				logger.Info("Key sources configured", "location", keys.LocationURI())
			}

			var mail interfaces.Mailer
			switch {
			case cfg.MailDryRun:
				logger.Info("Mail dry run enabled, messages are logged and not delivered")
				mail = mailer.NewLogMailer(logger)
			case cfg.SMTPHost != "":
				mail, err = mailer.NewSMTPMailer(cfg.SMTPConfig(), logger)
				if err != nil {
					logger.Error("Failed to configure SMTP", "err", err)
					return err
				}
			default:
				logger.Warn("SMTP_HOST not set, message dispatch will fail")
			}

			sw := availability.New(m)

			server, err := httpserver.New(flags.ConfigureServer(cCtx, logger, cfg.CORSAllowedOrigins), httpserver.Components{
				Switch: sw,
				Gate: gate.New(scheme, gate.Options{
					Header:  cfg.SecureHeader,
					Name:    "api",
					Log:     logger,
					Metrics: m,
				}),
				AdminGate: gate.New(adminScheme, gate.Options{
					Header:  cfg.SecureHeader,
					Name:    "admin",
					Log:     logger,
					Metrics: m,
				}),
				Metrics: m,
				Handlers: []httpserver.RouteRegistrar{
					keyshandler.NewHandler(keys, logger),
					mailhandler.NewHandler(mail, m, logger),
				},
			})
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			server.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
