// Package config handles configuration loading for realmgate.
//
// # Overview
//
// Server configuration is loaded from a YAML file with environment variable
// expansion; the realm manifest is a separate TOML file so operators can
// edit protected prefixes without touching server settings.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	realms:
//	  manifest: "${REALMGATE_REALMS}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Static content:
//
//	content:
//	  root: "/srv/realmgate/public"
//
// Realm manifest location:
//
//	realms:
//	  manifest: "/etc/realmgate/realms.toml"
//
// Password cache:
//
//	cache:
//	  ttl: "60s"   # time.ParseDuration syntax; how long a parsed
//	               # password file is reused before re-reading
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Realm Manifest
//
// The manifest is TOML with one table per realm:
//
//	[[realm]]
//	name = "Staging"
//	prefix = "/staging/"
//	password_file = "/etc/realmgate/staging.passwd"
//
// Prefixes must start with "/" and be unique; each password file holds
// ordered `username = password` records.
package config
