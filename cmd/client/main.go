package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yourusername/docchat/internal/api"
	"github.com/yourusername/docchat/internal/client"
	"github.com/yourusername/docchat/internal/client/ui"
	"github.com/yourusername/docchat/internal/config"
	"github.com/yourusername/docchat/internal/logging"
	"github.com/yourusername/docchat/internal/session"
)

var rootCmd = &cobra.Command{
	Use:          "docchat",
	Short:        "Terminal chat with a shared document",
	SilenceUsage: true,
	RunE:         runClient,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved login",
	RunE:  runLogout,
}

var exportCmd = &cobra.Command{
	Use:       "export [chat|document|all]",
	Short:     "Download the chat history and/or the document",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"chat", "document", "all"},
	RunE:      runExport,
}

var (
	flagConfig    string
	flagServerURL string
	flagAPIURL    string
	flagRoute     string
	flagExportDir string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "path to a TOML config file (default ./"+config.DefaultFileName+" if present)")
	flags.StringVar(&flagServerURL, "server", "", "WebSocket URL (overrides server_url)")
	flags.StringVar(&flagAPIURL, "api", "", "HTTP API base URL (overrides api_url)")
	flags.StringVar(&flagExportDir, "export-dir", "", "directory exports are written to")
	rootCmd.Flags().StringVar(&flagRoute, "route", ui.RouteHome, "route to open at startup")

	rootCmd.AddCommand(logoutCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the file and env, then applies flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagServerURL != "" {
		cfg.ServerURL = flagServerURL
	}
	if flagAPIURL != "" {
		cfg.APIURL = flagAPIURL
	}
	if flagExportDir != "" {
		cfg.ExportDir = flagExportDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func newClientFactory(cfg *config.Config, log zerolog.Logger) func() *client.Client {
	return func() *client.Client {
		return client.New(client.Options{
			ServerURL: cfg.ServerURL,
			APIURL:    cfg.APIURL,
			Debounce:  cfg.Debounce.Duration,
			Policy:    cfg.Policy(),
			ExportDir: cfg.ExportDir,
			Log:       log,
		})
	}
}

func runClient(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := session.OpenStore(cfg.SessionPath())
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := session.Load(store)
	if err != nil {
		log.Warn().Err(err).Msg("[main] cannot read saved login")
	}

	log.Info().
		Str("server", cfg.ServerURL).
		Str("api", cfg.APIURL).
		Str("policy", string(cfg.Policy())).
		Str("route", flagRoute).
		Msg("[main] starting")

	model := ui.NewModel(ui.Deps{
		Store:     store,
		Auth:      api.NewClient(cfg.APIURL, log),
		NewClient: newClientFactory(cfg, log),
		Log:       log,
	}, sess, flagRoute)

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(ui.Model); ok {
		m.Shutdown()
	}
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := session.OpenStore(cfg.SessionPath())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := session.Clear(store); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "logged out")
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	what := "all"
	if len(args) == 1 {
		what = args[0]
	}
	switch what {
	case "chat", "document", "all":
	default:
		return fmt.Errorf("unknown export %q", what)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newClientFactory(cfg, log)()
	out := cmd.OutOrStdout()

	if what == "chat" || what == "all" {
		path, err := c.ExportChat(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
	}
	if what == "document" || what == "all" {
		path, err := c.ExportDocument(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
	}
	return nil
}
