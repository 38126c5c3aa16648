// Package config loads the coordinator's runtime settings.
//
// Settings come from an optional JSON file ("coordinator.json" in the config
// directory) layered over built-in defaults, with environment variables
// taking final precedence. Durations are written as Go duration strings
// ("45s", "30m").
//
// Environment overrides:
//
//	COORDI_DEFAULT_GAME  default rules engine for new rooms
//	COORDI_GRACE_WINDOW  reconnection grace window
//	COORDI_ENDED_TTL     retention for ended/abandoned rooms
//	COORDI_LEDGER_URL    ledger service base URL (empty: no-op ledger)
package config
