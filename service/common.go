package service

import "newsportal/app/config"

// Database paths, variables to allow testing with different paths
var (
	dbPath    = "data/badger"
	backupDir = "data/backups"
)

func configure(cfg *config.Config) {
	if cfg != nil && cfg.Database.Path != "" {
		dbPath = cfg.Database.Path
	}
}
