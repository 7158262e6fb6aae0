package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"agenthub/cmd/agenthub/chat"
	"agenthub/cmd/agenthub/ui"
	"agenthub/internal/config"
	"agenthub/internal/fallback"
	"agenthub/internal/gateway"
	"agenthub/internal/ranking"
	"agenthub/internal/session"
)

var version = "0.3.0"

var (
	// Global flags
	verbose    bool
	configPath string
	apiURL     string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "agenthub",
	Short: "agenthub - personalized AI agent hub client",
	Long: `agenthub is a terminal client for the Agent Hub backend.

Sign in with your email, browse agent templates ranked by your
personalization profile, spin up agent instances, and chat with them.
When the backend is unreachable every operation degrades to local data,
so the client keeps working offline.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Interactive mode logs to a file so the TUI stays clean.
		toFile := cmd.Use == "agenthub" && cmd.CalledAs() == "agenthub"

		var err error
		logger, err = buildLogger(toFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// loginCmd signs in and persists the session credential for later commands.
var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in and store the session credential",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

// agentsCmd prints the ranked suggestion list without entering the TUI.
var agentsCmd = &cobra.Command{
	Use:   "agents [email]",
	Short: "List suggested agent templates, ranked by your profile",
	Long: `Signs in with the given email and prints the agent template catalog in
personalized order. Offline, the built-in catalog is printed unranked.`,
	Args: cobra.ExactArgs(1),
	RunE: runAgents,
}

// improveCmd asks the backend to run its self-improvement pass.
var improveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Trigger a backend self-improvement pass",
	RunE:  runImprove,
}

// logoutCmd clears the persisted session credential.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session credential",
	RunE:  runLogout,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the agenthub version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agenthub %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.agenthub/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides config)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(improveCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildLogger creates the process logger. Interactive mode writes to the
// configured log file (or ~/.agenthub/agenthub.log) instead of stderr.
func buildLogger(toFile bool) (*zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else if lvl, parseErr := zapcore.ParseLevel(cfg.Logging.Level); parseErr == nil && cfg.Logging.Level != "" {
		zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	if toFile {
		path := cfg.Logging.Path
		if path == "" {
			home, _ := os.UserHomeDir()
			path = filepath.Join(home, ".agenthub", "agenthub.log")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return zap.NewNop(), nil
		}
		zapCfg.OutputPaths = []string{path}
		zapCfg.ErrorOutputPaths = []string{path}
	}

	return zapCfg.Build()
}

// buildOrchestrator wires config, credentials, gateway, resolver, and the
// session orchestrator.
func buildOrchestrator() (*session.Orchestrator, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	creds := gateway.NewFileCredentialStore(cfg.Session.CredentialsPath)
	client := gateway.NewClient(cfg.API.BaseURL, cfg.RequestTimeout(), creds, logger)
	resolver := fallback.NewResolver(client, logger)
	return session.New(resolver, logger), nil
}

func runInteractive() error {
	orch, err := buildOrchestrator()
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))

	program := tea.NewProgram(chat.New(orch, styles), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	orch, err := buildOrchestrator()
	if err != nil {
		return err
	}

	if err := orch.Login(context.Background(), args[0]); err != nil {
		return err
	}

	user := orch.User()
	name := user.DisplayName
	if name == "" {
		name = user.Email
	}
	if orch.Degraded() {
		fmt.Printf("Signed in as %s (offline, session not persisted).\n", name)
	} else {
		fmt.Printf("Signed in as %s.\n", name)
	}
	return nil
}

func runAgents(cmd *cobra.Command, args []string) error {
	orch, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := orch.Login(ctx, args[0]); err != nil {
		return err
	}
	defer orch.Logout(ctx)

	profile := orch.Profile()
	for i, tpl := range orch.RankedSuggestions() {
		line := fmt.Sprintf("%2d. %-18s %s", i+1, tpl.ID, tpl.Name)
		if score, ok := ranking.Score(profile, tpl.ID); ok {
			line += fmt.Sprintf("  (score %.2f)", score)
		}
		fmt.Println(line)
		if tpl.Description != "" {
			fmt.Printf("    %s\n", tpl.Description)
		}
	}
	if orch.Degraded() {
		fmt.Println("\n(offline, showing the built-in catalog)")
	}
	return nil
}

func runImprove(cmd *cobra.Command, args []string) error {
	orch, err := buildOrchestrator()
	if err != nil {
		return err
	}

	source := orch.TriggerSelfImprove(context.Background())
	if source == fallback.SourceRemote {
		fmt.Println("Self-improvement run requested.")
	} else {
		fmt.Println("Backend unreachable; request dropped.")
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	orch, err := buildOrchestrator()
	if err != nil {
		return err
	}

	orch.Logout(context.Background())
	fmt.Println("Session cleared.")
	return nil
}
