package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/kaina/internal/config"
	"github.com/felixgeelhaar/kaina/internal/content"
)

// cmdInit initializes kaina for first-time use
func cmdInit() error {
	fmt.Println("Kaina - First-Time Setup")
	fmt.Println("========================")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	// 1. Create directory structure
	fmt.Print("Creating ~/.kaina directory structure... ")
	kainaDir, err := config.EnsureKainaDir()
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	fmt.Println("✓")

	// 2. Create default config if it doesn't exist
	configPath := filepath.Join(kainaDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Print("Creating default configuration... ")
		if err := config.SaveLocalConfig(config.DefaultLocalConfig()); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Println("✓")
	} else {
		fmt.Println("Configuration already exists ✓")
	}

	// 3. Seed the starter content pack
	fmt.Print("Setting up content... ")
	contentDir := filepath.Join(kainaDir, "content")
	starterPath := filepath.Join(contentDir, "prices-starter.yaml")
	if hasContent(contentDir) {
		fmt.Println("content already present ✓")
	} else if err := os.WriteFile(starterPath, []byte(content.StarterPackYAML), 0644); err != nil {
		return fmt.Errorf("write starter pack: %w", err)
	} else {
		fmt.Println("✓ (starter pack seeded)")
	}

	// 4. Optional shared-storage and event-queue connections
	fmt.Println()
	fmt.Println("Optional Connections")
	fmt.Println("--------------------")
	fmt.Println("Progress is stored locally by default. A PostgreSQL URL shares")
	fmt.Println("one profile across machines; a RabbitMQ URL enables the attempt log.")
	fmt.Println()

	var secrets config.SecretsConfig

	fmt.Print("PostgreSQL URL (or press Enter to skip): ")
	line, _ := reader.ReadString('\n')
	secrets.DatabaseURL = strings.TrimSpace(line)

	fmt.Print("RabbitMQ URL (or press Enter to skip): ")
	line, _ = reader.ReadString('\n')
	secrets.RabbitMQURL = strings.TrimSpace(line)

	if secrets.DatabaseURL != "" || secrets.RabbitMQURL != "" {
		if err := config.SaveSecrets(secrets); err != nil {
			return fmt.Errorf("save secrets: %w", err)
		}
		fmt.Println("  ✓ Saved to ~/.kaina/secrets.yaml")

		cfg, err := config.LoadLocalConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if secrets.DatabaseURL != "" {
			cfg.Storage.Backend = config.BackendPostgres
		}
		if secrets.RabbitMQURL != "" {
			cfg.Events.Enabled = true
		}
		if err := config.SaveLocalConfig(cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}

	// 5. Summary
	fmt.Println()
	fmt.Println("Setup Complete!")
	fmt.Println("===============")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. kaina start   # Start the daemon")
	fmt.Println("  2. kaina drill   # Practice price phrases")
	fmt.Println("  3. kaina weak    # See what the engine targets")
	fmt.Println()
	fmt.Println("For editor agents:")
	fmt.Println("  kaina mcp        # Serve drill tools over MCP stdio")

	return nil
}

// hasContent reports whether the content directory already holds a pack
// or CSV drop.
func hasContent(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml", ".csv":
			return true
		}
	}
	return false
}
