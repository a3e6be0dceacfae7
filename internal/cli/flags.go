package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file (defaults to $FLEETVIEW_CONFIG)"`
	BaseURL string `long:"base-url" description:"Override the fleet API root, e.g. http://127.0.0.1:1880/api"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" short:"v" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// RobotsCommand lists robot telemetry.
type RobotsCommand struct {
	Limit int `long:"limit" description:"Maximum robots (0 lets the server decide)"`

	env *environment
}

// TasksCommand lists tasks.
type TasksCommand struct {
	Status string `long:"status" description:"Only tasks in this status"`
	Limit  int    `long:"limit" description:"Maximum tasks (0 lets the server decide)"`

	env *environment
}

// EventsCommand lists the event log.
type EventsCommand struct {
	Limit int `long:"limit" description:"Maximum events (0 lets the server decide)"`

	env *environment
}

// InteractionsCommand lists operator interactions.
type InteractionsCommand struct {
	Limit     int    `long:"limit" description:"Maximum interactions"`
	Type      string `long:"type" description:"Filter by interaction type (voice, button, telegram, ...)"`
	InputMode string `long:"input-mode" description:"Filter by input mode"`
	Result    string `long:"result" description:"Filter by result"`
	Query     string `long:"query" short:"q" description:"Free-text search"`

	env *environment
}

// SummaryCommand shows the dashboard summary.
type SummaryCommand struct {
	Local      bool `long:"local" description:"Aggregate robots and tasks on the client instead of calling /summary"`
	RobotLimit int  `long:"robot-limit" description:"Robot feed limit for --local"`
	TaskLimit  int  `long:"task-limit" description:"Task feed limit for --local"`

	env *environment
}

// BriefCommand fetches the AI fleet brief.
type BriefCommand struct {
	Range   string `long:"range" description:"Brief window: day | week" default:"day"`
	Refresh bool   `long:"refresh" description:"Ask the server to regenerate the brief"`

	env *environment
}

// InsightCommand fetches the AI interaction insight.
type InsightCommand struct {
	Range   string `long:"range" description:"Insight window: day | week" default:"week"`
	Refresh bool   `long:"refresh" description:"Ask the server to regenerate the insight"`

	env *environment
}

// RequestCommand submits an operator request.
type RequestCommand struct {
	Type       string   `long:"type" description:"Request type, e.g. send_robot (required)"`
	TargetArea string   `long:"target-area" description:"Target area identifier"`
	Meta       []string `long:"meta" description:"Metadata as key=value (repeatable; JSON values are decoded)"`

	env *environment
}

// SettingsGetCommand prints the application settings.
type SettingsGetCommand struct {
	env *environment
}

// SettingsSetCommand updates application settings from key=value arguments.
type SettingsSetCommand struct {
	Replace bool `long:"replace" description:"Send only the given keys instead of merging into the current settings"`

	env *environment
}

// WatchCommand polls the summary and logs what changed.
type WatchCommand struct {
	Interval       string `long:"interval" description:"Poll interval (defaults to watch.interval)"`
	Local          bool   `long:"local" description:"Aggregate on the client instead of calling /summary"`
	Count          int    `long:"count" description:"Stop after this many polls (0 runs until interrupted)"`
	MetricsAddress string `long:"metrics-address" description:"Override server.metricsAddress"`
	NoMetrics      bool   `long:"no-metrics" description:"Do not serve /metrics"`

	env *environment
}
