package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/integrations/calendarapi"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/workspace"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/logger"
)

// Коды выхода
const (
	exitOK       = 0
	exitError    = 1
	exitUsage    = 2
	exitConflict = 3
)

const (
	defaultAPIURL  = "http://localhost:8080"
	defaultTimeout = 15
	userAgent      = "calctl/1.0"
)

// cliConfig параметры, общие для всех команд. Флаги перекрывают окружение.
type cliConfig struct {
	apiURL    string
	token     string
	timeout   time.Duration
	createdBy string
	logLevel  string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "calctl: load .env: %v\n", err)
		return exitError
	}

	cfg, rest, err := parseGlobal(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "calctl: %v\n", err)
		return exitUsage
	}
	if len(rest) == 0 {
		usage(stderr)
		return exitUsage
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "calctl: unknown command %q\n\n", rest[0])
		usage(stderr)
		return exitUsage
	}

	log, err := logger.NewWithOutput(stderr, "", cfg.logLevel, "calctl")
	if err != nil {
		fmt.Fprintf(stderr, "calctl: %v\n", err)
		return exitUsage
	}
	defer log.Close()

	client := calendarapi.NewClient(calendarapi.Config{
		BaseURL:     cfg.apiURL,
		Timeout:     cfg.timeout,
		AccessToken: cfg.token,
		UserAgent:   userAgent,
	}, log)

	caps := workspace.PublicCapabilities()
	if client.Authenticated() {
		caps = workspace.AdminCapabilities()
	}

	a := &app{
		client:    client,
		workspace: workspace.NewService(client, caps, cfg.createdBy, log),
		out:       stdout,
		now:       time.Now,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.run(ctx, a, rest[1:]); err != nil {
		return report(stderr, err)
	}
	return exitOK
}

func parseGlobal(args []string, stderr io.Writer) (*cliConfig, []string, error) {
	cfg := &cliConfig{
		apiURL:    envOr("CALCTL_API_URL", defaultAPIURL),
		token:     os.Getenv("CALCTL_TOKEN"),
		createdBy: os.Getenv("CALCTL_CREATED_BY"),
		logLevel:  envOr("CALCTL_LOG_LEVEL", "warn"),
	}

	timeoutSec := defaultTimeout
	if raw := os.Getenv("CALCTL_TIMEOUT"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return nil, nil, fmt.Errorf("CALCTL_TIMEOUT must be a positive number of seconds, got %q", raw)
		}
		timeoutSec = v
	}

	fs := flag.NewFlagSet("calctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	fs.StringVar(&cfg.apiURL, "api", cfg.apiURL, "calendar API base URL (CALCTL_API_URL)")
	fs.StringVar(&cfg.token, "token", cfg.token, "admin bearer token (CALCTL_TOKEN), empty for the public view")
	fs.IntVar(&timeoutSec, "timeout", timeoutSec, "request timeout in seconds (CALCTL_TIMEOUT)")
	fs.StringVar(&cfg.createdBy, "created-by", cfg.createdBy, "author stored with new bookings and notes (CALCTL_CREATED_BY)")
	fs.StringVar(&cfg.logLevel, "log-level", cfg.logLevel, "debug, info, warn or error (CALCTL_LOG_LEVEL)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if timeoutSec <= 0 {
		return nil, nil, fmt.Errorf("-timeout must be positive")
	}
	cfg.timeout = time.Duration(timeoutSec) * time.Second
	cfg.apiURL = strings.TrimSpace(cfg.apiURL)
	if cfg.apiURL == "" {
		return nil, nil, fmt.Errorf("API URL is required")
	}

	return cfg, fs.Args(), nil
}

// report печатает ошибку и выбирает код выхода
func report(stderr io.Writer, err error) int {
	var conflict *workspace.ConflictError
	switch {
	case errors.As(err, &conflict):
		fmt.Fprintf(stderr, "calctl: %s\n", describeConflict(conflict))
		return exitConflict
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "calctl: %v\n", err)
		}
		return exitUsage
	case errors.Is(err, workspace.ErrReadOnly):
		fmt.Fprintln(stderr, "calctl: this command needs an admin token (-token or CALCTL_TOKEN)")
		return exitError
	default:
		fmt.Fprintf(stderr, "calctl: %v\n", err)
		return exitError
	}
}

func describeConflict(c *workspace.ConflictError) string {
	b := c.Booking
	if b.StartDate.IsZero() {
		return "dates conflict with an existing booking"
	}
	if b.Source == "" {
		return fmt.Sprintf("dates conflict with booking %s (%s - %s)", b.ID, b.StartDate, b.EndDate)
	}
	return fmt.Sprintf("dates conflict with %s booking %s (%s - %s)", b.Source, b.ID, b.StartDate, b.EndDate)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: calctl [global flags] <command> [flags]

Global flags:
  -api URL          calendar API base URL (CALCTL_API_URL)
  -token TOKEN      admin bearer token (CALCTL_TOKEN)
  -timeout SEC      request timeout (CALCTL_TIMEOUT)
  -created-by NAME  author of new bookings and notes (CALCTL_CREATED_BY)
  -log-level LEVEL  log level (CALCTL_LOG_LEVEL)

Commands:
`)
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].summary)
	}
}
