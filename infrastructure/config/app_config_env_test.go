package config

import (
	"os"
	"testing"
)

func TestSplitCommaSeparated(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "single pattern",
			input:    "halo*",
			expected: []string{"halo*"},
		},
		{
			name:     "multiple patterns without spaces",
			input:    "halo*,forza*,sea of thieves",
			expected: []string{"halo*", "forza*", "sea of thieves"},
		},
		{
			name:     "multiple patterns with spaces",
			input:    "halo*, forza*,  sea of thieves",
			expected: []string{"halo*", "forza*", "sea of thieves"},
		},
		{
			name:     "trailing comma",
			input:    "halo*,forza*,",
			expected: []string{"halo*", "forza*"},
		},
		{
			name:     "only commas",
			input:    ",,,",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitCommaSeparated(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("expected %d elements, got %d", len(tt.expected), len(result))
				return
			}
			for i, v := range result {
				if v != tt.expected[i] {
					t.Errorf("element %d: expected %s, got %s", i, tt.expected[i], v)
				}
			}
		})
	}
}

func TestSlicesEqual(t *testing.T) {
	tests := []struct {
		name     string
		a        []string
		b        []string
		expected bool
	}{
		{
			name:     "both empty",
			a:        []string{},
			b:        []string{},
			expected: true,
		},
		{
			name:     "same elements",
			a:        []string{"a", "b", "c"},
			b:        []string{"a", "b", "c"},
			expected: true,
		},
		{
			name:     "different length",
			a:        []string{"a", "b"},
			b:        []string{"a", "b", "c"},
			expected: false,
		},
		{
			name:     "different elements",
			a:        []string{"a", "b", "c"},
			b:        []string{"a", "b", "d"},
			expected: false,
		},
		{
			name:     "different order",
			a:        []string{"a", "b", "c"},
			b:        []string{"c", "b", "a"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := slicesEqual(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestActivityWatchlistEnvironmentVariable(t *testing.T) {
	// Save original env
	originalWatchlist := os.Getenv("XBMON_ACTIVITY_WATCHLIST")
	defer func() { _ = os.Setenv("XBMON_ACTIVITY_WATCHLIST", originalWatchlist) }()

	// Set test env
	testWatchlist := "halo*, forza horizon*, sea of thieves"
	if err := os.Setenv("XBMON_ACTIVITY_WATCHLIST", testWatchlist); err != nil {
		t.Fatalf("Failed to set environment variable: %v", err)
	}

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	expected := []string{"halo*", "forza horizon*", "sea of thieves"}
	if !slicesEqual(config.Monitor.ActivityWatchlist, expected) {
		t.Errorf("Expected watchlist %v, got %v", expected, config.Monitor.ActivityWatchlist)
	}

	// Check config source
	if source, ok := config.ConfigSources["Monitor.ActivityWatchlist"]; !ok || source != SourceEnvironment {
		t.Errorf("Expected Monitor.ActivityWatchlist source to be SourceEnvironment, got %v", source)
	}
}

func TestSMTPRecipientsEnvironmentVariable(t *testing.T) {
	// Save original env
	originalTo := os.Getenv("XBMON_SMTP_TO")
	defer func() { _ = os.Setenv("XBMON_SMTP_TO", originalTo) }()

	if err := os.Setenv("XBMON_SMTP_TO", "alerts@example.com, backup@example.com"); err != nil {
		t.Fatalf("Failed to set environment variable: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load config from env: %v", err)
	}

	expected := []string{"alerts@example.com", "backup@example.com"}
	if !slicesEqual(config.SMTP.To, expected) {
		t.Errorf("Expected recipients %v, got %v", expected, config.SMTP.To)
	}

	if source, ok := config.ConfigSources["SMTP.To"]; !ok || source != SourceEnvironment {
		t.Errorf("Expected SMTP.To source to be SourceEnvironment, got %v", source)
	}
}
