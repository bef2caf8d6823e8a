package config

import "testing"

func TestValidateNeynarRequiresKeys(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Provider: ProviderConfig{Name: ProviderNeynar},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error without Neynar keys")
	}

	cfg.Neynar.APIKeys = []string{"key1"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateAirstackRequiresKey(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Provider: ProviderConfig{Name: ProviderAirstack},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error without Airstack key")
	}

	cfg.Airstack.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Addr: ":8080"},
		Provider: ProviderConfig{Name: "carrier-pigeon"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown provider")
	}
}

func TestCollectAPIKeysNumberedSlots(t *testing.T) {
	t.Setenv("TEST_API_KEY_1", "a")
	t.Setenv("TEST_API_KEY_3", "c")

	keys := collectAPIKeys("TEST_API_KEY_")
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Errorf("keys = %v, want [a c]", keys)
	}
}
