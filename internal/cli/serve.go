package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarawak-explorer/itinerary/internal/api"
	"github.com/sarawak-explorer/itinerary/internal/config"
	"github.com/sarawak-explorer/itinerary/internal/identity"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the itinerary over an HTTP JSON API",
	Long: `Run the HTTP API until interrupted.

Entry and export routes require a bearer token when auth.jwt_secret (or
ITINERARY_JWT_SECRET) is set; otherwise every request acts as the local user.
The catalog routes are public.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		opts, err := serverOptions(a)
		if err != nil {
			return err
		}
		if serveListen != "" {
			opts.Listen = serveListen
		}

		PrintInfo("Listening on " + opts.Listen)
		return api.New(a.svc, opts).ListenAndServe(ctx)
	},
}

func serverOptions(a *app) (api.Options, error) {
	opts := api.Options{
		Listen:         a.cfg.Server.Listen,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		RatePerSecond:  a.cfg.Server.RatePerSecond,
		Burst:          a.cfg.Server.Burst,
		Identity:       identity.NewLocal(a.cfg.Auth.LocalUser),
		Export:         a.exportOptions(),
	}
	if a.cfg.Auth.JWTSecret != "" {
		verifier, err := identity.NewJWT(a.cfg.Auth.JWTSecret)
		if err != nil {
			return api.Options{}, err
		}
		opts.Identity = verifier
	}
	return opts, nil
}

var (
	tokenUser string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the API",
	Long: `Sign a JWT with the configured secret, for clients of "itinerary serve".

Requires auth.jwt_secret or ` + config.EnvJWTSecret + `.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadConfig()
		if err != nil {
			return err
		}

		issuer, err := identity.NewJWT(cfg.Auth.JWTSecret)
		if err != nil {
			return err
		}

		user := tokenUser
		if user == "" {
			user = cfg.Auth.LocalUser
		}
		token, err := issuer.Issue(identity.Profile{UserID: user, Username: user}, tokenTTL)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(map[string]string{"token": token, "user": user})
		}
		PrintInfo(token)
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address to listen on (default from config)")
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "User id to put in the token (default: auth.local_user)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}
