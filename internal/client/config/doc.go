// Package config loads runtime configuration for the rentdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables with the RENTDESK_ prefix (RENTDESK_MODE,
//     RENTDESK_API_URL, RENTDESK_DEV_SERVER_URL, RENTDESK_DB_PATH,
//     RENTDESK_LOG_LEVEL, RENTDESK_LOG_FORMAT).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-u string   absolute API URL
//	-m string   development | production
//	-d string   session database path
//	-l string   log level
//
// In development mode without an explicit URL the client talks to
// DevServerURL + "/api".
package config
