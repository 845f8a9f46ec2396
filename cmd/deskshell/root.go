package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/deskshell/internal/domain/tenant"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/deskshell/internal/shell"
	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	cfg     *config.Config
	baseDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "deskshell",
		Short: "Native host shell for the multi-tenant desktop app",
		Long: `deskshell resolves the tenant for this install, keeps the tray icon and
main window lifecycle, and exposes native commands to the embedded app
over a loopback bridge.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}
			cfg, err := config.Load()
			if err != nil {
				// Inspection commands still work on defaults
				if cmd.Name() == "run" {
					return err
				}
				cfg, _ = config.LoadOrDefault()
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; using default settings\n", err)
			}

			flags := cmd.Flags()
			if flags.Changed("env") {
				cfg.Desktop.Env, _ = flags.GetString("env")
			}
			if flags.Changed("tenant") {
				cfg.Desktop.Tenant, _ = flags.GetString("tenant")
			}
			if flags.Changed("addr") {
				cfg.Bridge.Addr, _ = flags.GetString("addr")
			}
			if flags.Changed("dev") {
				cfg.Logging.Development, _ = flags.GetBool("dev")
				if cfg.Logging.Development {
					cfg.Logging.Level = "debug"
				}
			}
			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().String("env", "", "Environment name, selects config/<env>.json")
	root.PersistentFlags().String("tenant", "", "Tenant id override")
	root.PersistentFlags().StringVar(&opts.baseDir, "base-dir", "", "Directory holding config/ (defaults to the executable's directory)")
	_ = root.PersistentFlags().MarkHidden("base-dir")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), opts)
		},
	}
	cmd.Flags().String("addr", "", "Bridge listen address")
	cmd.Flags().Bool("dev", false, "Development logging")
	return cmd
}

func runShell(ctx context.Context, opts *rootOptions) error {
	cfg := opts.cfg

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logging.CrashHook(logger.Logger)

	sh, err := shell.New(cfg, logger, shell.Options{BaseDir: opts.baseDir, Version: Version})
	if err != nil {
		logger.Error("Failed to start shell", zap.Error(err))
		_ = logger.Sync()
		return err
	}
	defer sh.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return sh.Run(ctx)
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Resolve and print the tenant configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseDir := opts.baseDir
			if baseDir == "" {
				baseDir = config.ExecutableDir()
			}

			resolved, err := tenant.NewResolver(baseDir, nil).Resolve(opts.cfg.Desktop.Env, opts.cfg.Desktop.Tenant)
			if err != nil {
				return err
			}

			out, err := sonic.ConfigStd.MarshalIndent(resolved, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "deskshell %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		},
	}
}
