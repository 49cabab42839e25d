package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Shop struct {
		Marketplace string
	} `mapstructure:"shop"`

	Views struct {
		// строгий режим: не дублировать trial-позиции с renewal в legacy
		DedupeTrialRenewals bool `mapstructure:"dedupe_trial_renewals"`
	} `mapstructure:"views"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
	} `mapstructure:"telegram"`

	Notify struct {
		Enabled    bool
		WindowDays int    `mapstructure:"window_days"`
		Interval   string // duration, например "24h"
	} `mapstructure:"notify"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	// Переопределение через ENV (APP_*)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.Shop.Marketplace == "" {
		c.Shop.Marketplace = "canonical-ua"
	}
	if c.Notify.WindowDays == 0 {
		c.Notify.WindowDays = 7
	}
	if c.Notify.Interval == "" {
		c.Notify.Interval = "24h"
	}
	return c, nil
}
