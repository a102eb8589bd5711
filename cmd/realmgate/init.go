// ABOUTME: Interactive `realmgate init` subcommand
// ABOUTME: Writes a starter config, realm manifest and example password file

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("realmgate configuration setup")
	fmt.Println("=============================")
	fmt.Println()

	defaultConfigPath := getConfigPath()
	defaultConfigDir := filepath.Dir(defaultConfigPath)

	// Output filename
	outputFile := prompt(reader, "Config file path", defaultConfigPath)

	// Check if file exists
	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if strings.ToLower(overwrite) != "yes" && strings.ToLower(overwrite) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	// Server configuration
	fmt.Println("\n--- Server Configuration ---")
	httpAddr := prompt(reader, "HTTP address", "localhost:8080")
	contentRoot := prompt(reader, "Static content root", "./public")

	// Realms
	fmt.Println("\n--- Realm Configuration ---")
	manifestPath := prompt(reader, "Realm manifest path",
		filepath.Join(defaultConfigDir, "realms.toml"))
	passwdPath := prompt(reader, "Example password file path",
		filepath.Join(defaultConfigDir, "private.passwd"))

	// Logging
	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	// Generate config
	var cfg strings.Builder
	cfg.WriteString("# realmgate configuration\n")
	cfg.WriteString("# Generated by realmgate init\n\n")

	cfg.WriteString("server:\n")
	cfg.WriteString(fmt.Sprintf("  http_addr: \"%s\"\n", httpAddr))
	cfg.WriteString("\n")

	cfg.WriteString("content:\n")
	cfg.WriteString(fmt.Sprintf("  root: \"%s\"\n", contentRoot))
	cfg.WriteString("\n")

	cfg.WriteString("realms:\n")
	cfg.WriteString(fmt.Sprintf("  manifest: \"%s\"\n", manifestPath))
	cfg.WriteString("\n")

	cfg.WriteString("cache:\n")
	cfg.WriteString("  ttl: \"60s\"\n")
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: \"%s\"\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: \"%s\"\n", logFormat))

	// Ensure config directory exists
	configDir := filepath.Dir(outputFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write config file
	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	// Write realm manifest unless one already exists
	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		manifest := fmt.Sprintf(`# realmgate realm manifest
# Each [[realm]] table binds a URL prefix to a password file.

[[realm]]
name = "Private"
prefix = "/private/"
password_file = "%s"
`, passwdPath)

		if err := os.MkdirAll(filepath.Dir(manifestPath), 0755); err != nil {
			return fmt.Errorf("creating manifest directory: %w", err)
		}
		if err := os.WriteFile(manifestPath, []byte(manifest), 0644); err != nil {
			return fmt.Errorf("writing realm manifest: %w", err)
		}
	}

	// Write an example password file unless one already exists.
	// Password files hold plain text; keep them out of the content root.
	if _, err := os.Stat(passwdPath); os.IsNotExist(err) {
		passwd := "# realmgate password file\n# One `username = password` record per line.\n"
		if err := os.MkdirAll(filepath.Dir(passwdPath), 0755); err != nil {
			return fmt.Errorf("creating password file directory: %w", err)
		}
		if err := os.WriteFile(passwdPath, []byte(passwd), 0600); err != nil {
			return fmt.Errorf("writing password file: %w", err)
		}
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Printf("Realm manifest: %s\n", manifestPath)
	fmt.Printf("Password file:  %s\n", passwdPath)
	fmt.Println("\nAdd a user:")
	fmt.Printf("  realmgate-passwd add %s alice\n", passwdPath)
	fmt.Println("\nTo start the server:")
	fmt.Printf("  realmgate serve\n")

	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
