package config

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{},
		Commands: CommandsConfig{
			Prefix:    "!",
			Burst:     3,
			PerMinute: 20,
		},
		Reconnect: ReconnectConfig{
			InitialBackoffSeconds: 1,
			MaxBackoffSeconds:     30,
			MaxRetries:            10,
		},
		Audit: AuditConfig{
			Enabled:       true,
			DBPath:        "~/.partybot/audit.db",
			RetentionDays: 90,
		},
		Notify: NotifyConfig{
			Telegram: TelegramNotifyConfig{Enabled: false},
		},
		LogLevel: "info",
	}
}
