// Package config provides configuration management for the metrics service.
// It loads settings from multiple sources, validates them and hands a single
// Config struct to the rest of the application, which never reads the process
// environment directly.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML file (CONFIG_FILE, ./config.yaml or ./configs/config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// Keys are the section name joined with the field name. Fields with an
// explicit name also accept the bare name, so the deployment-level variables
// work unchanged:
//
//	SHEET_ID / SHEETS_SHEET_ID       spreadsheet id (required per request)
//	API_KEY / SHEETS_API_KEY         Google API key (required per request)
//	SHEET_RANGE                      A1 range, default Sheet1!A:H
//	SHEETS_TIMEOUT                   upstream timeout, default 10s
//	PORT / SERVER_PORT               local server port, default 8080
//	CACHE_S_MAXAGE                   shared cache lifetime, default 900
//	LOGGING_LEVEL                    debug | info | warn | error
//
// # Validation
//
// Load validates server, logging and observability settings with
// go-playground/validator and fails fast. The sheet id and API key are not
// required at load time; SheetsConfig.Validate runs on every request and a
// missing value surfaces as a 500 response.
package config
