package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"partybot/internal/audit"
	"partybot/internal/bot"
	"partybot/internal/command"
	"partybot/internal/config"
	"partybot/internal/domain"
	"partybot/internal/gameclient"
	"partybot/internal/group"
	"partybot/internal/notify"
	"partybot/internal/security"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "partybot",
		Short: "PartyBot: in-game group management bot",
		Long:  "PartyBot connects to a game server as a regular character and manages the group roster on behalf of its admins via chat commands.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json (default: ~/.partybot/config.json)")

	root.AddCommand(initCmd())
	root.AddCommand(runCmd())
	root.AddCommand(auditCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file to fill in",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("config already exists at %s", cfgPath)
			}
			if err := config.Save(cfgPath, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			fmt.Println("Edit the config to set server.url, auth credentials and the admins list.")
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to the game server and serve admin commands",
		RunE:  runBot,
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

	// Graceful shutdown on signals; the loop observes ctx between events.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var auditLog domain.AuditLog
	if cfg.Audit.Enabled {
		store, err := audit.NewStore(config.ExpandPath(cfg.Audit.DBPath), logger)
		if err != nil {
			return fmt.Errorf("open audit store: %w", err)
		}
		defer store.Close()
		if cfg.Audit.RetentionDays > 0 {
			retention := time.Duration(cfg.Audit.RetentionDays) * 24 * time.Hour
			if _, err := store.Prune(ctx, retention); err != nil {
				logger.Warn("audit prune failed", "err", err)
			}
		}
		auditLog = store
	}

	var notifier bot.Notifier
	if cfg.Notify.Telegram.Enabled {
		tg, err := notify.NewTelegram(notify.TelegramConfig{
			Token:  cfg.Notify.Telegram.Token,
			ChatID: cfg.Notify.Telegram.ChatID,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("telegram notifier: %w", err)
		}
		notifier = tg
	}

	aliases, err := command.LoadAliases(config.ExpandPath(cfg.Commands.AliasFile), logger)
	if err != nil {
		return err
	}

	connector := gameclient.NewConnector(gameclient.Config{
		URL:    cfg.Server.URL,
		Logger: logger,
	})

	supervisor := bot.NewSupervisor(bot.SupervisorConfig{
		Connector: connector,
		Credentials: domain.Credentials{
			Username:  cfg.Auth.Username,
			Password:  cfg.Auth.Password,
			Character: cfg.Auth.Character,
		},
		InitialBackoff: time.Duration(cfg.Reconnect.InitialBackoffSeconds) * time.Second,
		MaxBackoff:     time.Duration(cfg.Reconnect.MaxBackoffSeconds) * time.Second,
		MaxRetries:     cfg.Reconnect.MaxRetries,
		Logger:         logger,
	})

	loop := bot.New(bot.Config{
		Supervisor: supervisor,
		Parser:     command.NewParser(cfg.Commands.Prefix, aliases),
		Gate:       security.NewGate(cfg.Admins, logger),
		Engine:     group.NewEngine(logger),
		Audit:      auditLog,
		Notifier:   notifier,
		Character:  cfg.Auth.Character,
		Burst:      cfg.Commands.Burst,
		PerMinute:  cfg.Commands.PerMinute,
		Logger:     logger,
	})

	logger.Info("starting", "version", version, "server", cfg.Server.URL, "character", cfg.Auth.Character)
	return loop.Run(ctx)
}

func auditCmd() *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "audit",
		Short: "Show recent admin-command decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return err
			}
			if !cfg.Audit.Enabled {
				return fmt.Errorf("audit log is disabled in the config")
			}

			store, err := audit.NewStore(config.ExpandPath(cfg.Audit.DBPath), logger)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, rec := range records {
				line := fmt.Sprintf("%s  %-10s %-8s %-16s %s",
					rec.CreatedAt.Format(time.DateTime), rec.Result, rec.Verb, rec.Target, rec.Sender)
				if rec.Details != "" {
					line += "  (" + rec.Details + ")"
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	c.Flags().IntVarP(&limit, "limit", "n", 50, "number of records to show")
	return c
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("partybot", version)
		},
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
