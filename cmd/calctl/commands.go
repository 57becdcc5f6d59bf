package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/integrations/calendarapi"
	"github.com/m04kA/SMC-ApartmentCalendar/internal/service/workspace"
	"github.com/m04kA/SMC-ApartmentCalendar/pkg/types"
)

var errUsage = errors.New("usage")

// feedFetcher сырой iCal через прокси сервера
type feedFetcher interface {
	FetchFeed(ctx context.Context, apartmentKey string) ([]byte, error)
}

type app struct {
	client    feedFetcher
	workspace *workspace.Service
	out       io.Writer
	now       func() time.Time
}

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commandOrder = []string{"list", "days", "conflicts", "create", "update", "delete", "note", "unnote", "feed"}

var commands = map[string]command{
	"list":      {summary: "show every apartment with its bookings", run: runList},
	"days":      {summary: "print the month grid of an apartment", run: runDays},
	"conflicts": {summary: "check a date range against existing bookings", run: runConflicts},
	"create":    {summary: "create a manual booking", run: runCreate},
	"update":    {summary: "change dates or note of a manual booking", run: runUpdate},
	"delete":    {summary: "delete a manual booking", run: runDelete},
	"note":      {summary: "attach a note to an external booking", run: runNote},
	"unnote":    {summary: "remove the note of an external booking", run: runUnnote},
	"feed":      {summary: "print the raw iCal feed of an apartment", run: runFeed},
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: %s: unexpected arguments %v", errUsage, fs.Name(), fs.Args())
	}
	return nil
}

func required(fs *flag.FlagSet, values map[string]string) error {
	var missing []string
	for name, v := range values {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s: missing %s", errUsage, fs.Name(), strings.Join(missing, ", "))
	}
	return nil
}

func parseDateFlag(name, value string) (types.Date, error) {
	d, err := types.ParseDate(value)
	if err != nil {
		return types.Date{}, fmt.Errorf("%w: -%s: %v", errUsage, name, err)
	}
	return d, nil
}

// isSet проверяет, передан ли флаг явно
func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("list")
	apartment := fs.String("apartment", "", "show only this apartment key")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := a.workspace.Refresh(ctx); err != nil {
		return err
	}

	keys := a.workspace.ApartmentKeys()
	if *apartment != "" {
		keys = []string{*apartment}
	}
	for _, key := range keys {
		set, err := a.workspace.Apartment(key)
		if err != nil {
			return err
		}
		renderApartment(a.out, key, set)
	}
	return nil
}

func runDays(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("days")
	apartment := fs.String("apartment", "", "apartment key")
	month := fs.String("month", "", "month as YYYY-MM, current month by default")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"apartment": *apartment}); err != nil {
		return err
	}

	year, m, err := parseMonthFlag(*month, a.now())
	if err != nil {
		return err
	}

	if err := a.workspace.Refresh(ctx); err != nil {
		return err
	}

	days, err := a.workspace.DayStatuses(*apartment, year, m)
	if err != nil {
		return err
	}
	renderMonth(a.out, *apartment, year, m, days)
	return nil
}

func runConflicts(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("conflicts")
	apartment := fs.String("apartment", "", "apartment key")
	start := fs.String("start", "", "check-in day YYYY-MM-DD")
	end := fs.String("end", "", "check-out day YYYY-MM-DD")
	exclude := fs.String("exclude", "", "booking id to ignore, e.g. the one being edited")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"apartment": *apartment, "start": *start, "end": *end}); err != nil {
		return err
	}
	startDate, err := parseDateFlag("start", *start)
	if err != nil {
		return err
	}
	endDate, err := parseDateFlag("end", *end)
	if err != nil {
		return err
	}

	if err := a.workspace.Refresh(ctx); err != nil {
		return err
	}

	conflict, err := a.workspace.CheckConflict(*apartment, startDate, endDate, *exclude)
	if err != nil {
		return err
	}
	if conflict == nil {
		fmt.Fprintln(a.out, "no conflicts")
		return nil
	}
	return &workspace.ConflictError{Booking: *conflict}
}

func runCreate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("create")
	apartment := fs.String("apartment", "", "apartment key")
	start := fs.String("start", "", "check-in day YYYY-MM-DD")
	end := fs.String("end", "", "check-out day YYYY-MM-DD")
	note := fs.String("note", "", "optional note")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"apartment": *apartment, "start": *start, "end": *end}); err != nil {
		return err
	}
	startDate, err := parseDateFlag("start", *start)
	if err != nil {
		return err
	}
	endDate, err := parseDateFlag("end", *end)
	if err != nil {
		return err
	}

	if err := a.workspace.Refresh(ctx); err != nil {
		return err
	}

	err = a.workspace.CreateBooking(ctx, workspace.BookingInput{
		ApartmentKey: *apartment,
		StartDate:    startDate,
		EndDate:      endDate,
		Note:         note,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "booking created for %s\n", *apartment)
	return nil
}

func runUpdate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("update")
	id := fs.String("id", "", "booking id")
	start := fs.String("start", "", "new check-in day YYYY-MM-DD")
	end := fs.String("end", "", "new check-out day YYYY-MM-DD")
	note := fs.String("note", "", "new note, empty string clears it")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"id": *id}); err != nil {
		return err
	}

	var in workspace.BookingInput
	var err error
	if *start != "" {
		if in.StartDate, err = parseDateFlag("start", *start); err != nil {
			return err
		}
	}
	if *end != "" {
		if in.EndDate, err = parseDateFlag("end", *end); err != nil {
			return err
		}
	}

	if err := a.workspace.Refresh(ctx); err != nil {
		return err
	}

	// Без -note заметка остаётся прежней
	if isSet(fs, "note") {
		in.Note = note
	}

	if err := a.workspace.UpdateBooking(ctx, *id, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "booking %s saved\n", *id)
	return nil
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete")
	id := fs.String("id", "", "booking id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"id": *id}); err != nil {
		return err
	}

	if err := a.workspace.Refresh(ctx); err != nil {
		return err
	}
	if err := a.workspace.DeleteBooking(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "booking %s deleted\n", *id)
	return nil
}

func runNote(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("note")
	apartment := fs.String("apartment", "", "apartment key")
	external := fs.String("external", "", "external booking id from the feed")
	text := fs.String("text", "", "note text")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"apartment": *apartment, "external": *external, "text": *text}); err != nil {
		return err
	}

	if err := a.workspace.Refresh(ctx); err != nil {
		return err
	}
	if err := a.workspace.UpsertExternalNote(ctx, *apartment, *external, *text); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "note saved for %s/%s\n", *apartment, *external)
	return nil
}

func runUnnote(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("unnote")
	apartment := fs.String("apartment", "", "apartment key")
	external := fs.String("external", "", "external booking id from the feed")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"apartment": *apartment, "external": *external}); err != nil {
		return err
	}

	if err := a.workspace.Refresh(ctx); err != nil {
		return err
	}
	if err := a.workspace.DeleteExternalNote(ctx, *apartment, *external); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "note removed from %s/%s\n", *apartment, *external)
	return nil
}

func runFeed(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("feed")
	apartment := fs.String("apartment", "", "apartment key")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(fs, map[string]string{"apartment": *apartment}); err != nil {
		return err
	}

	body, err := a.client.FetchFeed(ctx, *apartment)
	if err != nil {
		if errors.Is(err, calendarapi.ErrUnauthorized) {
			return fmt.Errorf("%w (the feed is available to admins only)", err)
		}
		return err
	}
	_, err = a.out.Write(body)
	return err
}

func parseMonthFlag(value string, now time.Time) (int, time.Month, error) {
	if value == "" {
		now = now.UTC()
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: -month: expected YYYY-MM, got %q", errUsage, value)
	}
	return t.Year(), t.Month(), nil
}
