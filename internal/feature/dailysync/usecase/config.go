package usecase

import "os"

const (
	DefaultTable = "portfolio_daily"
	DefaultView  = "v_portfolio_daily"
)

// Config names the synced table and its whole-table view.
type Config struct {
	Table string
	View  string
}

// LoadConfig reads DAILY_TABLE and DAILY_VIEW.
func LoadConfig() Config {
	cfg := Config{Table: os.Getenv("DAILY_TABLE"), View: os.Getenv("DAILY_VIEW")}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.View == "" {
		cfg.View = DefaultView
	}
	return cfg
}
