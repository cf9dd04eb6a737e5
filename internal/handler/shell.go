package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/glizzus/traytimer/internal/duration"
	"github.com/glizzus/traytimer/internal/presenters"
	"github.com/glizzus/traytimer/internal/reminder"
	"github.com/glizzus/traytimer/internal/repository"
	"github.com/glizzus/traytimer/internal/schedule"
)

// Command is a line command understood by the shell.
type Command struct {
	Name        string
	Usage       string
	Description string
	Run         func(s *Shell, ctx context.Context, args []string) error
}

// Commands is a list of all the commands the shell can handle, in the order
// they are listed by help.
var Commands []*Command

func init() {
	Commands = []*Command{
		{
			Name:        "menu",
			Description: "Show presets and pending notifications",
			Run:         (*Shell).menu,
		},
		{
			Name:        "brew",
			Usage:       "<n>",
			Description: "Start preset number n from the menu",
			Run:         (*Shell).brew,
		},
		{
			Name:        "sleep",
			Usage:       "<duration> <message>",
			Description: "Notify after a duration such as 90, 5m or 3m30s",
			Run:         (*Shell).sleep,
		},
		{
			Name:        "at",
			Usage:       "<hh:mm[:ss]> <message>",
			Description: "Notify at a time of day, today",
			Run:         (*Shell).at,
		},
		{
			Name:        "every",
			Usage:       "<cron|@descriptor> <message>",
			Description: "Notify every time a five-field cron expression matches",
			Run:         (*Shell).every,
		},
		{
			Name:        "cancel",
			Usage:       "<id>",
			Description: "Cancel a pending notification",
			Run:         (*Shell).cancel,
		},
		{
			Name:        "history",
			Usage:       "[n]",
			Description: "Show the last n resolved notifications",
			Run:         (*Shell).history,
		},
		{
			Name:        "help",
			Description: "List commands",
			Run:         (*Shell).help,
		},
		{
			Name:        "quit",
			Description: "Cancel everything and exit",
			Run:         func(*Shell, context.Context, []string) error { return ErrQuit },
		},
	}
}

var aliases = map[string]string{
	"ls":   "menu",
	"list": "menu",
	"exit": "quit",
	"rm":   "cancel",
	"?":    "help",
}

func lookup(name string) *Command {
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	for _, c := range Commands {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Shell reads commands line by line and drives a reminder service.
type Shell struct {
	svc         *reminder.Service
	historyRepo repository.HistoryRepository
	out         io.Writer
}

func NewShell(svc *reminder.Service, history repository.HistoryRepository, out io.Writer) *Shell {
	return &Shell{svc: svc, historyRepo: history, out: out}
}

// Execute runs a single command line.
func (s *Shell) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd := lookup(strings.ToLower(fields[0]))
	if cmd == nil {
		return userErrorf("unknown command %q, try help", fields[0])
	}
	return cmd.Run(s, ctx, fields[1:])
}

// Run executes commands read from in until quit, end of input, or ctx is done.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	s.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			err := s.Execute(ctx, line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				s.report(err)
			}
			s.prompt()
		}
	}
}

func (s *Shell) prompt() {
	fmt.Fprint(s.out, "> ")
}

func (s *Shell) report(err error) {
	var userErr *UserError
	var usageErr *UsageError
	switch {
	case errors.As(err, &userErr), errors.As(err, &usageErr):
		fmt.Fprintf(s.out, "%v\n", err)
	default:
		slog.Error("command failed", slog.Any("error", err))
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func (s *Shell) menu(ctx context.Context, args []string) error {
	items := presenters.BuildMenu(s.svc.Presets(), s.svc.Pending(), s.svc.Now())
	for _, item := range items {
		switch item.Kind {
		case presenters.ItemSeparator:
			fmt.Fprintln(s.out, "  ---")
		case presenters.ItemPreset:
			fmt.Fprintf(s.out, "  %2d) %s\n", item.Index+1, item.Label)
		case presenters.ItemPending:
			fmt.Fprintf(s.out, "  #%d  %s\n", item.ID, item.Label)
		case presenters.ItemSleep:
			fmt.Fprintf(s.out, "  %s  (sleep %s)\n", item.Label, lookup("sleep").Usage)
		case presenters.ItemWaitUntil:
			fmt.Fprintf(s.out, "  %s  (at %s)\n", item.Label, lookup("at").Usage)
		case presenters.ItemExit:
			fmt.Fprintf(s.out, "  %s  (quit)\n", item.Label)
		}
	}
	return nil
}

func (s *Shell) brew(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return &UsageError{Command: "brew", Usage: lookup("brew").Usage}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(s.svc.Presets()) {
		return userErrorf("no preset %q, pick a number between 1 and %d", args[0], len(s.svc.Presets()))
	}
	id, err := s.svc.Brew(n - 1)
	if err != nil {
		return err
	}
	return s.scheduled(id)
}

func (s *Shell) sleep(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return &UsageError{Command: "sleep", Usage: lookup("sleep").Usage}
	}
	d, err := duration.Parse(args[0])
	if err != nil {
		return &UserError{Message: err.Error()}
	}
	id, err := s.svc.Sleep(d, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	return s.scheduled(id)
}

func (s *Shell) at(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return &UsageError{Command: "at", Usage: lookup("at").Usage}
	}
	clock, err := ParseTimeOfDay(args[0])
	if err != nil {
		return err
	}
	at := reminder.TodayAt(s.svc.Now(), clock.Hour(), clock.Minute(), clock.Second())
	id, err := s.svc.WaitUntil(at, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	return s.scheduled(id)
}

func (s *Shell) every(ctx context.Context, args []string) error {
	usage := &UsageError{Command: "every", Usage: lookup("every").Usage}
	if len(args) < 2 {
		return usage
	}

	fields := 5
	if strings.HasPrefix(args[0], "@") {
		fields = 1
	}
	if len(args) <= fields {
		return usage
	}

	cron := strings.Join(args[:fields], " ")
	if err := schedule.ValidateCron(cron); err != nil {
		return &UserError{Message: err.Error()}
	}
	id, err := s.svc.Repeat(cron, strings.Join(args[fields:], " "))
	if err != nil {
		return &UserError{Message: err.Error()}
	}
	return s.scheduled(id)
}

func (s *Shell) cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return &UsageError{Command: "cancel", Usage: lookup("cancel").Usage}
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil {
		return userErrorf("invalid id %q", args[0])
	}
	id := schedule.ID(n)
	if !s.svc.Cancel(id) {
		return userErrorf("#%d is not pending", id)
	}
	fmt.Fprintf(s.out, "Cancelled #%d\n", id)
	return nil
}

func (s *Shell) history(ctx context.Context, args []string) error {
	limit := 10
	if len(args) > 1 {
		return &UsageError{Command: "history", Usage: lookup("history").Usage}
	}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return userErrorf("invalid count %q", args[0])
		}
		limit = n
	}

	records, err := s.historyRepo.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(s.out, "No notifications yet.")
		return nil
	}
	for _, r := range records {
		line := fmt.Sprintf("  %s  #%d %-9s %s", r.ResolvedAt.Local().Format(time.TimeOnly), r.NotificationID, r.State, r.Title)
		if r.Body != "" {
			line += ": " + strings.ReplaceAll(r.Body, "\n", " ")
		}
		if r.Error != "" {
			line += " (" + r.Error + ")"
		}
		fmt.Fprintln(s.out, line)
	}
	return nil
}

func (s *Shell) help(ctx context.Context, args []string) error {
	for _, c := range Commands {
		usage := c.Name
		if c.Usage != "" {
			usage += " " + c.Usage
		}
		fmt.Fprintf(s.out, "  %-36s %s\n", usage, c.Description)
	}
	return nil
}

func (s *Shell) scheduled(id schedule.ID) error {
	n, err := s.svc.Get(id)
	if errors.Is(err, schedule.ErrNotFound) {
		// Already delivered; past-due notifications fire right away.
		fmt.Fprintf(s.out, "Delivered #%d\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Scheduled #%d: %s\n", id, presenters.PendingLabel(n, s.svc.Now()))
	return nil
}

// ParseTimeOfDay accepts "15:04" or "15:04:05".
func ParseTimeOfDay(text string) (time.Time, error) {
	for _, layout := range []string{time.TimeOnly, "15:04"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, userErrorf("invalid time of day %q, expected hh:mm or hh:mm:ss", text)
}
