package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/randomizedcoder/go-regtest-harness/internal/config"
	"github.com/randomizedcoder/go-regtest-harness/internal/logging"
	"github.com/randomizedcoder/go-regtest-harness/internal/metrics"
	"github.com/randomizedcoder/go-regtest-harness/internal/orchestrator"
	"github.com/randomizedcoder/go-regtest-harness/internal/provision"
	"github.com/randomizedcoder/go-regtest-harness/internal/supervisor"
	"github.com/randomizedcoder/go-regtest-harness/internal/tui"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "go-regtest-harness",
		Short:         "Provision and supervise a local regtest network of chaind plus N lpd nodes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "YAML config file")
	root.PersistentFlags().String("data-dir", "", "parent directory for node data dirs (or "+config.EnvDataDir+")")
	root.PersistentFlags().String("backend-dir", "", "backend data directory (or "+config.EnvBackendDir+")")
	root.PersistentFlags().String("install-dir", "", "directory holding the chaind/lpd executables (or "+config.EnvInstallDir+")")
	root.PersistentFlags().String("network", "", "network mode: regtest or simnet")
	root.PersistentFlags().Int("base-port", 0, "node i listens on base-port + i")
	root.PersistentFlags().String("metrics", "", "Prometheus metrics address (empty = disabled)")
	root.PersistentFlags().String("log-format", "", `log format: "json" or "text"`)
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")
	root.PersistentFlags().Bool("non-interactive", false, "never prompt; fail if the data directory is unresolved")

	root.AddCommand(newUpCmd())
	root.AddCommand(newDownCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newEnvCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// resolveConfig builds the effective config from defaults, the optional
// config file, the environment, and finally explicit flags. An optional
// positional argument selects the node count.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("backend-dir") {
		cfg.BackendDataDir, _ = flags.GetString("backend-dir")
	}
	if flags.Changed("install-dir") {
		cfg.InstallDir, _ = flags.GetString("install-dir")
	}
	if flags.Changed("network") {
		cfg.Network, _ = flags.GetString("network")
	}
	if flags.Changed("base-port") {
		cfg.BasePort, _ = flags.GetInt("base-port")
	}
	if flags.Changed("metrics") {
		cfg.MetricsAddr, _ = flags.GetString("metrics")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("non-interactive") {
		cfg.NonInteractive, _ = flags.GetBool("non-interactive")
	}
	// Local to the up command; must land in the config before the session is
	// built, because the supervisor copies it at construction time.
	if flags.Changed("start-all") {
		cfg.StartAll, _ = flags.GetBool("start-all")
	}

	if len(args) >= 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("node count %q is not a number", args[0])
		}
		cfg.Nodes = n
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// newSession builds the logger and session for a command invocation.
func newSession(cmd *cobra.Command, args []string) (*orchestrator.Session, *config.Config, *slog.Logger, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := logging.NewLogger(cfg.LogFormat, cfg.LogLevel, cfg.Verbose)
	logging.SetDefault(logger)

	var reader provision.LineReader
	if cfg.DataDir == "" && !cfg.NonInteractive {
		reader, err = provision.NewTerminalReader()
		if err != nil {
			return nil, nil, nil, err
		}
		defer reader.Close()
	}

	session, err := orchestrator.NewSession(cfg, logger, version, reader)
	if err != nil {
		return nil, nil, nil, err
	}
	return session, cfg, logger, nil
}

// signalContext cancels on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up [nodes]",
		Short: "Provision the network and start it in dependency order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, logger, err := newSession(cmd, args)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			var server *metrics.Server
			if cfg.MetricsAddr != "" {
				server = metrics.NewServer(cfg.MetricsAddr, logger)
				if err := server.Start(); err != nil {
					return err
				}
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					server.Shutdown(shutdownCtx)
				}()
			}

			logger.Info("starting",
				"version", version,
				"nodes", cfg.Nodes,
				"network", cfg.Network,
				"data_dir", session.ParentDir(),
			)

			if err := session.Up(ctx); err != nil {
				return err
			}

			printUpSummary(session)
			return nil
		},
	}

	cmd.Flags().Bool("start-all", false, "launch every node daemon, not only previously registered ones")
	return cmd
}

func newDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down [nodes]",
		Short: "Stop every supervised process and remove its pid record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, _, err := newSession(cmd, args)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			return session.Down(ctx)
		},
	}
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [nodes]",
		Short: "Stop the network and remove the generated configuration files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, _, err := newSession(cmd, args)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			return session.Clean(ctx)
		},
	}
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [nodes]",
		Short: "Show the tracked status of the backend and every node",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, cfg, _, err := newSession(cmd, args)
			if err != nil {
				return err
			}

			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return tui.Run(session.Supervisor(), session.ParentDir(), cfg.Network)
			}

			printStatuses(session.Supervisor().Statuses())
			return nil
		},
	}

	cmd.Flags().Bool("watch", false, "live terminal view, refreshed every second")
	return cmd
}

func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env [nodes]",
		Short: "Print eval-able shell bindings for each node's control client and log",
		Long: `Print shell aliases binding each node's control client (lpcli<i>) and log
pager (lpdlog<i>), plus the backend control client (chctl).

Usage:
  eval "$(go-regtest-harness env)"      # install bindings
  eval "$(go-regtest-harness env -u)"   # remove them again`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, _, err := newSession(cmd, args)
			if err != nil {
				return err
			}

			if unset, _ := cmd.Flags().GetBool("unset"); unset {
				session.Registry().RenderUnset(os.Stdout)
				return nil
			}
			session.Registry().RenderBindings(os.Stdout)
			return nil
		},
	}

	cmd.Flags().BoolP("unset", "u", false, "print the removals instead")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the harness version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("go-regtest-harness %s\n", version)
		},
	}
}

// printUpSummary prints the post-start banner.
func printUpSummary(session *orchestrator.Session) {
	fmt.Println()
	fmt.Println("Network is up.")
	fmt.Printf("  Backend:  %s\n", session.BackendDataDir())
	for _, spec := range session.Specs() {
		fmt.Printf("  Node %d:   %s (port %d)\n", spec.Index, spec.Dir, spec.Port)
	}
	fmt.Println()
	fmt.Println(`Install shell bindings with: eval "$(go-regtest-harness env)"`)
	fmt.Println()
}

// printStatuses prints the process table.
func printStatuses(infos []supervisor.ProcessInfo) {
	fmt.Printf("%-10s %-9s %8s  %s\n", "PROCESS", "STATUS", "PID", "PID FILE")
	for _, info := range infos {
		pid := "-"
		if info.PID > 0 {
			pid = strconv.Itoa(info.PID)
		}
		fmt.Printf("%-10s %-9s %8s  %s\n", info.Name, info.Status.String(), pid, info.PIDPath)
	}
}
