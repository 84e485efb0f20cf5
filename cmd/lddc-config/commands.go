package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/lddc/internal/config"
	"github.com/muurk/lddc/internal/logging"
	"github.com/muurk/lddc/internal/metrics"
	"github.com/muurk/lddc/internal/ui"
	"github.com/muurk/lddc/internal/version"
)

// app carries the flags and the store shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	stats      bool
	format     string

	store     *config.Store
	collector *metrics.Collector
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "lddc-config",
		Short: "LDDC configuration utility",
		Long: `Inspect and edit the LDDC configuration store.

Values are read from the configuration file, with LDDC_* environment
variables (LDDC_API_TIMEOUT, LDDC_CACHE_TTL, ...) replacing the built-in
defaults. Changes are written back immediately.`,
		Version:           version.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			defer logging.Sync()
			return a.printStats(cmd.ErrOrStderr())
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Configuration file (default: platform config directory)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $LDDC_LOG_LEVEL or silent)")
	root.PersistentFlags().BoolVar(&a.stats, "stats", false, "Print store metrics to stderr when done")

	root.AddCommand(
		a.getCmd(),
		a.setCmd(),
		a.deleteCmd(),
		a.resetCmd(),
		a.showCmd(),
		a.webAPICmd(),
		a.pathCmd(),
		versionCmd(),
	)
	return root
}

// open initializes logging and builds the store before any subcommand runs.
func (a *app) open(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	if err := logging.Initialize(a.logLevel); err != nil {
		// Logging is optional; the command still runs without it
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	collector, err := metrics.NewCollector()
	if err != nil {
		return err
	}
	a.collector = collector

	opts := []config.Option{config.WithRecorder(collector)}
	if a.configPath != "" {
		opts = append(opts, config.WithPath(a.configPath))
	}
	a.store = config.New(opts...)

	if config.ApplyHostingPreset(a.store, nil) {
		logging.Debug("Hosting platform detected", zap.String("path", a.store.Path()))
	}
	return nil
}

func (a *app) printStats(w io.Writer) error {
	if !a.stats || a.collector == nil {
		return nil
	}
	lines, err := a.collector.Summary()
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}

// styled reports whether w is an interactive terminal.
func styled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && ui.IsTerminal(f)
}

// checkPersisted turns a failed write into a command error. The store
// keeps the value in memory, which is useless once this process exits.
func (a *app) checkPersisted(cmd *cobra.Command, what string) error {
	err := a.store.PersistErr()
	if err == nil {
		return nil
	}
	if styled(cmd.OutOrStdout()) {
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderWarning(what+" kept in memory only", err,
			"check that "+a.store.Path()+" is writable",
			"set LDDC_CONFIG_DIR to use another directory",
		))
	}
	return fmt.Errorf("%s not saved: %w", what, err)
}

// kindOf returns the kind a key accepts: the declared kind for schema
// keys, the stored kind for adopted ones.
func (a *app) kindOf(key string) (config.Kind, error) {
	if kind, ok := a.store.Schema().KindOf(key); ok {
		return kind, nil
	}
	v, err := a.store.Get(key)
	if err != nil {
		return 0, err
	}
	return v.Kind(), nil
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print one setting",
		Long: `Print the current value of one setting.

Scalars are printed as plain text, lists as JSON.`,
		Example: `  lddc-config get api_timeout
  lddc-config get langs_order`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.store.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.Format(v))
			return nil
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting",
		Long: `Change one setting and save the configuration file.

VALUE is parsed according to the setting's kind:
  bool         true, false, 1, 0
  int, float   a number
  string       taken verbatim
  string-list  a JSON array or a comma-separated list
  color-list   a JSON array of [r, g, b] triples
  rect         a JSON array: [] or [x, y, width, height]`,
		Example: `  lddc-config set api_timeout 45
  lddc-config set langs_order orig,ts
  lddc-config set desktop_lyrics_played_colors '[[0,255,255],[0,128,255]]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, text := args[0], args[1]

			kind, err := a.kindOf(key)
			if err != nil {
				return err
			}
			v, err := config.ParseText(kind, text)
			if err != nil {
				return err
			}
			if err := a.store.Set(key, v); err != nil {
				return err
			}
			if err := a.checkPersisted(cmd, key); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if styled(out) {
				fmt.Fprintln(out, ui.RenderSuccess(key+" updated",
					ui.Param{Key: "Value", Value: config.Format(v)},
					ui.Param{Key: "File", Value: a.store.Path()},
				))
				return nil
			}
			fmt.Fprintf(out, "%s = %s\n", key, config.Format(v))
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Remove one setting from the file",
		Long: `Remove one setting from the configuration file.

Removing an unknown key is not an error. A built-in setting comes back
with its default value the next time the configuration is loaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.store.Delete(args[0]) {
				// Nothing was removed, so nothing was written
				return nil
			}
			return a.checkPersisted(cmd, args[0])
		},
	}
}

func (a *app) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore every built-in setting to its default",
		Long: `Restore every built-in setting to its default and save the file.

LDDC_* environment overrides count as defaults. Settings the built-in
schema does not know about are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store.Reset()
			if err := a.store.Save(); err != nil {
				return a.checkPersisted(cmd, "reset")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration reset: %s\n", a.store.Path())
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "List every setting",
		Long: `List every setting grouped by what it affects.

Settings that differ from their default are marked with '*'. Output is
plain "key = value" lines when stdout is not a terminal.`,
		Example: `  lddc-config show
  lddc-config show --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			switch a.format {
			case "json", "yaml":
				doc := make(map[string]any)
				for key, v := range a.store.Snapshot() {
					doc[key] = config.Plain(v)
				}
				return encode(out, a.format, doc)
			case "", "text":
			default:
				return fmt.Errorf("unknown format %q (want text, json or yaml)", a.format)
			}

			sections := a.sections()
			if !styled(out) {
				fmt.Fprint(out, ui.RenderPlain(sections))
				return nil
			}
			fmt.Fprintln(out, ui.NewHeader("LDDC configuration", cmd.CommandPath(),
				ui.Param{Key: "File", Value: a.store.Path()},
				ui.Param{Key: "Settings", Value: fmt.Sprint(len(a.store.Keys()))},
			).Render())
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.RenderTable(sections))
			return nil
		},
	}
	cmd.Flags().StringVar(&a.format, "format", "text", "Output format (text, json, yaml)")
	return cmd
}

// webAPIKeys are listed in their own section by show.
var webAPIKeys = []string{
	config.KeyAPITimeout,
	config.KeyCacheEnabled,
	config.KeyCacheTTL,
	config.KeyRateLimitPerMinute,
	config.KeyEnableCORS,
	config.KeyDebugMode,
	config.KeyMultiSearchSources,
}

// sections groups the live settings: one section per change group, the
// web API settings, then everything else.
func (a *app) sections() []ui.Section {
	snapshot := a.store.Snapshot()
	schema := a.store.Schema()
	seen := make(map[string]bool)

	row := func(key string) (ui.Row, bool) {
		v, ok := snapshot[key]
		if !ok || seen[key] {
			return ui.Row{}, false
		}
		seen[key] = true
		def, declared := schema.Default(key)
		return ui.Row{
			Key:     key,
			Kind:    v.Kind().String(),
			Value:   config.Format(v),
			Changed: !declared || !config.Equal(v, def),
		}, true
	}
	build := func(title string, keys []string) ui.Section {
		sec := ui.Section{Title: title}
		for _, key := range keys {
			if r, ok := row(key); ok {
				sec.Rows = append(sec.Rows, r)
			}
		}
		return sec
	}

	var sections []ui.Section
	for _, g := range config.Groups() {
		sections = append(sections, build(groupTitle(g), g.Members()))
	}
	sections = append(sections, build("Web API", webAPIKeys))

	var rest []string
	for key := range snapshot {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	slices.Sort(rest)
	sections = append(sections, build("Other", rest))
	return sections
}

func groupTitle(g config.Group) string {
	switch g {
	case config.GroupLyrics:
		return "Lyrics conversion"
	case config.GroupDesktopOverlay:
		return "Desktop lyrics overlay"
	default:
		return string(g)
	}
}

func (a *app) webAPICmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "webapi",
		Short: "Print the web API settings",
		Long:  `Print the settings used by the LDDC web API as JSON or YAML.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return encode(cmd.OutOrStdout(), format, a.store.WebAPIConfig())
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json, yaml)")
	return cmd
}

func (a *app) pathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.store.Path())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lddc-config %s\n", version.Full())
		},
	}
}

// encode writes v as indented JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New("unknown format " + format + " (want json or yaml)")
	}
}
