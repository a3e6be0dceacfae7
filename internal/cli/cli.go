package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	goflags "github.com/jessevdk/go-flags"

	"github.com/miradorstack/fleetview/internal/models"
	"github.com/miradorstack/fleetview/internal/repo"
	"github.com/miradorstack/fleetview/internal/transport"
)

// Exit codes returned by ExitCode.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitServer  = 3
	ExitNetwork = 4
	ExitDecode  = 5
)

var errUsage = errors.New("usage")

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Robots       *RobotsCommand
	Tasks        *TasksCommand
	Events       *EventsCommand
	Interactions *InteractionsCommand
	Summary      *SummaryCommand
	Brief        *BriefCommand
	Insight      *InsightCommand
	Request      *RequestCommand
	SettingsGet  *SettingsGetCommand
	SettingsSet  *SettingsSetCommand
	Watch        *WatchCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(env *environment) (*goflags.Parser, *commands) {
	parser := goflags.NewParser(env.globals, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "fleetctl"
	parser.LongDescription = "Query and operate a robot fleet through the fleet API."

	cmds := &commands{
		Robots:       &RobotsCommand{env: env},
		Tasks:        &TasksCommand{env: env},
		Events:       &EventsCommand{env: env},
		Interactions: &InteractionsCommand{env: env},
		Summary:      &SummaryCommand{env: env},
		Brief:        &BriefCommand{env: env},
		Insight:      &InsightCommand{env: env},
		Request:      &RequestCommand{env: env},
		SettingsGet:  &SettingsGetCommand{env: env},
		SettingsSet:  &SettingsSetCommand{env: env},
		Watch:        &WatchCommand{env: env},
	}

	parser.AddCommand("robots", "List robots", "List robot telemetry documents.", cmds.Robots)
	parser.AddCommand("tasks", "List tasks", "List tasks, optionally filtered by status.", cmds.Tasks)
	parser.AddCommand("events", "List events", "List the fleet event log, newest first.", cmds.Events)
	parser.AddCommand("interactions", "List operator interactions", "List operator interactions with aggregate stats.", cmds.Interactions)
	parser.AddCommand("summary", "Show the dashboard summary", "Show the fleet summary from /summary, or aggregate it locally with --local.", cmds.Summary)
	parser.AddCommand("brief", "Show the AI fleet brief", "Show the AI-generated fleet brief for a day or week.", cmds.Brief)
	parser.AddCommand("insight", "Show the AI interaction insight", "Show the AI-generated interaction insight for a day or week.", cmds.Insight)
	parser.AddCommand("request", "Submit an operator request", "Submit an operator request such as sending a robot to an area.", cmds.Request)
	parser.AddCommand("watch", "Poll the summary and log changes", "Poll the summary, log what changed between polls and serve Prometheus metrics.", cmds.Watch)

	settings, _ := parser.AddCommand("settings", "Read or update application settings", "Read or update application settings.", &struct{}{})
	if settings != nil {
		settings.AddCommand("get", "Print settings", "Print the application settings.", cmds.SettingsGet)
		settings.AddCommand("set", "Update settings", "Update settings from key=value arguments. Values that parse as JSON are sent decoded.", cmds.SettingsSet)
	}

	return parser, cmds
}

// Run is the main entry point for the fleetctl CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	if args == nil {
		args = os.Args[1:]
	}
	return run(context.Background(), version, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, version string, args []string, stdout, stderr io.Writer) error {
	for _, arg := range args {
		if arg == "--version" {
			fmt.Fprintf(stdout, "fleetctl %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	env := &environment{
		ctx:     ctx,
		globals: &GlobalFlags{},
		stdout:  stdout,
		stderr:  stderr,
	}
	parser, _ := buildParser(env)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *goflags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == goflags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return nil
		}
		return err
	}
	return nil
}

// ExitCode maps an error returned by Run onto a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		flagsErr   *goflags.Error
		serverErr  *transport.ServerError
		networkErr *transport.NetworkError
		decodeErr  *transport.DecodeError
	)
	switch {
	case errors.Is(err, errUsage),
		errors.Is(err, models.ErrInvalidRange),
		errors.Is(err, repo.ErrMissingRequestType),
		errors.As(err, &flagsErr):
		return ExitUsage
	case errors.As(err, &serverErr):
		return ExitServer
	case errors.As(err, &networkErr):
		return ExitNetwork
	case errors.As(err, &decodeErr):
		return ExitDecode
	default:
		return ExitFailure
	}
}
