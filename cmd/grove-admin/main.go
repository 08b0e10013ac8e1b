// Command grove-admin lists and creates groves through the admin API of a
// running server.
//
//	grove-admin list --output yaml
//	grove-admin create --name "Bamboo" --mod-email mod@example.com --mod-name "Mod"
//
// The server address and admin key default to BAMBOO_ADMIN_URL and
// BAMBOO_AUTH_ADMIN_API_KEY.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/Creastina/bambushain/internal/model"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage: grove-admin <list|create> [flags]")

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	command, rest := args[0], args[1:]

	var url, key, format string
	flagSet := pflag.NewFlagSet("grove-admin "+command, pflag.ContinueOnError)
	flagSet.StringVar(&url, "url", envOr("BAMBOO_ADMIN_URL", "http://localhost:8080"), "address of the bambushain server")
	flagSet.StringVar(&key, "key", os.Getenv("BAMBOO_AUTH_ADMIN_API_KEY"), "admin api key")
	flagSet.StringVarP(&format, "output", "o", formatTable, "output format: table, json or yaml")

	switch command {
	case "list":
		if err := flagSet.Parse(rest); err != nil {
			return err
		}
		if err := checkCommon(key, format); err != nil {
			return err
		}

		groves, err := newAdminClient(url, key).listGroves(ctx)
		if err != nil {
			return err
		}
		return writeGroves(out, format, groves)

	case "create":
		var req model.CreateGroveRequest
		flagSet.StringVar(&req.GroveName, "name", "", "name of the new grove")
		flagSet.StringVar(&req.ModEmail, "mod-email", "", "email of the first mod")
		flagSet.StringVar(&req.ModName, "mod-name", "", "display name of the first mod")
		if err := flagSet.Parse(rest); err != nil {
			return err
		}
		if err := checkCommon(key, format); err != nil {
			return err
		}
		if req.GroveName == "" || req.ModEmail == "" || req.ModName == "" {
			return errors.New("--name, --mod-email and --mod-name are required")
		}

		grove, err := newAdminClient(url, key).createGrove(ctx, req)
		if err != nil {
			return err
		}
		return writeGroves(out, format, []model.GroveWithMods{*grove})

	default:
		return fmt.Errorf("unknown command %q\n%w", command, errUsage)
	}
}

func checkCommon(key, format string) error {
	if key == "" {
		return errors.New("no admin key, set --key or BAMBOO_AUTH_ADMIN_API_KEY")
	}
	if !validFormat(format) {
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
