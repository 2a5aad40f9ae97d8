package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/rentdesk/internal/flagx"
)

// parseJson overlays cfg with the JSON file passed as -c or -config. Keys
// missing from the file keep their current value. Without the flag this is
// a no-op.
//
//	{
//	  "mode": "production",
//	  "api_url": "https://rentdesk.example/api",
//	  "db_path": "/var/lib/rentdesk/session.db",
//	  "log_level": "debug"
//	}
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}
