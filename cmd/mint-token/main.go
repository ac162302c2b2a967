// Command mint-token signs a bearer token for local testing of /me and
// /notifications/read. It reads JWT_SECRET and JWT_ISSUER from the same
// environment as the server, so the token validates against it.
//
// Usage:
//
//	JWT_SECRET=... go run ./cmd/mint-token -handle alice [-ttl 1h]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sakif/snippet-social/internal/auth"
	"github.com/sakif/snippet-social/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("mint-token failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("mint-token", flag.ContinueOnError)
	handle := fs.String("handle", "", "user handle to put in the token subject")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*handle) == "" {
		return errors.New("-handle is required")
	}
	if *ttl <= 0 {
		return fmt.Errorf("-ttl must be positive, got %s", *ttl)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return err
	}

	token, err := tokens.GenerateWithDuration(*handle, *ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
