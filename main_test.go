package main

import (
	"context"
	"testing"

	"github.com/RituKumari998/Coordi/game/config"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}
	if *host == "" {
		t.Error("Host should have a default value")
	}
	if *configDir == "" {
		t.Error("Config directory should have a default value")
	}
}

func TestGetConfigDirDefault(t *testing.T) {
	t.Run("environment override", func(t *testing.T) {
		t.Setenv("CONFIG_DIR", "/custom/configs")
		if got := getConfigDirDefault(); got != "/custom/configs" {
			t.Errorf("Expected '/custom/configs', got '%s'", got)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		t.Setenv("CONFIG_DIR", "")
		if got := getConfigDirDefault(); got != "configs" {
			t.Errorf("Expected 'configs', got '%s'", got)
		}
	})
}

func TestInitializeServices(t *testing.T) {
	hub, coordinator := initializeServices(config.Default())
	if hub == nil {
		t.Fatal("Expected hub to be initialized")
	}
	if coordinator == nil {
		t.Fatal("Expected coordinator to be initialized")
	}
	if rooms := coordinator.Rooms(context.Background()); len(rooms) != 0 {
		t.Errorf("Expected no rooms at startup, got %d", len(rooms))
	}
}
