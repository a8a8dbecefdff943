// Command formbind binds an urlencoded payload against a YAML shape file and
// prints the result as JSON.
//
//	formbind -shape order.yaml 'Title=Desk&Lines[0].SKU=A1&Lines[0].Qty=2'
//	formbind -shape order.yaml -name order 'order.Title=Desk'
//	echo 'Title=Desk' | formbind -shape order.yaml
//	formbind -shape order.yaml -serve :8080
//
// With -serve it runs an HTTP playground instead: POST /bind binds the
// submitted form and answers with the bound value or the JSON error body.
// Server settings come from FORMBIND_HTTP_* variables.
//
// Logging is configured with FORMBIND_LOG_LEVEL and FORMBIND_LOG_FORMAT,
// mapper limits with MODELBIND_MAX_DEPTH and MODELBIND_MAX_FIELDS.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/dmitrymomot/webkit/pkg/config"
	"github.com/dmitrymomot/webkit/pkg/httpserver"
	"github.com/dmitrymomot/webkit/pkg/logger"
	"github.com/dmitrymomot/webkit/pkg/modelbind"
	"github.com/dmitrymomot/webkit/pkg/requestid"
	"github.com/dmitrymomot/webkit/pkg/shapefile"
)

var errUsage = errors.New("usage: formbind -shape file.yaml [-name prefix] [-serve addr | payload]")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("formbind", flag.ContinueOnError)
	fs.SetOutput(stderr)
	shapePath := fs.String("shape", "", "path to the YAML shape file")
	name := fs.String("name", "", "field prefix to bind under; empty binds fields at the root")
	indent := fs.Bool("indent", true, "indent JSON output")
	addr := fs.String("serve", "", "run the HTTP playground on this address")
	if err := fs.Parse(args); err != nil {
		return errors.Join(errUsage, err)
	}
	if *shapePath == "" || fs.NArg() > 1 || (*addr != "" && fs.NArg() > 0) {
		return errUsage
	}

	var logCfg logger.Config
	if err := config.Load(&logCfg, config.WithPrefix("FORMBIND_")); err != nil {
		return err
	}
	log := newLogger(logCfg, stderr)

	var bindCfg modelbind.Config
	if err := config.Load(&bindCfg); err != nil {
		return err
	}
	m := modelbind.New(modelbind.WithConfig(bindCfg), modelbind.WithLogger(log))

	file, err := shapefile.Load(*shapePath)
	if err != nil {
		return err
	}

	if *addr != "" {
		var srvCfg httpserver.Config
		if err := config.Load(&srvCfg, config.WithPrefix("FORMBIND_")); err != nil {
			return err
		}
		srvCfg.Addr = *addr
		return serve(ctx, srvCfg, log, newRouter(log, m, file, *name))
	}

	payload, err := readPayload(fs.Args(), stdin)
	if err != nil {
		return err
	}
	values, err := url.ParseQuery(payload)
	if err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	if m.MaxFields() > 0 && len(values) > m.MaxFields() {
		return fmt.Errorf("payload has %d fields, limit is %d", len(values), m.MaxFields())
	}

	out, err := file.Bind(m, modelbind.Values(values), *name)
	if err != nil {
		log.Error("binding failed", logger.Error(err), logger.Shape(file.Name))
		return err
	}
	log.Debug("bound payload", logger.Shape(file.Name), slog.Int("fields", len(values)))

	enc := json.NewEncoder(stdout)
	if *indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

// newLogger tags records with the service and, for playground requests, the
// request ID.
func newLogger(cfg logger.Config, w io.Writer) *slog.Logger {
	return logger.New(
		logger.WithConfig(cfg),
		logger.WithService("formbind"),
		logger.WithOutput(w),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
}

func readPayload(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if stdin == nil {
		return "", nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read payload: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
