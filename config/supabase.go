package config

import (
	"fmt"
	"os"

	supa "github.com/supabase-community/supabase-go"
)

var SupabaseClient *supa.Client

// InitSupabase initializes the Supabase client using environment variables.
func InitSupabase() error {
	supabaseURL := os.Getenv("SUPABASE_URL")
	if supabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL must be set")
	}

	supabaseKey := os.Getenv("SUPABASE_SERVICE_KEY")
	if supabaseKey == "" {
		// Fall back to the anonymous key. Row-level security then applies to
		// every query, so manager listings and role lookups will be limited.
		supabaseKey = os.Getenv("SUPABASE_ANON_KEY")
		if supabaseKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY or SUPABASE_ANON_KEY must be set")
		}
		Log.Warn("Using anonymous key for Supabase. Set SUPABASE_SERVICE_KEY for full access.")
	}

	client, err := supa.NewClient(supabaseURL, supabaseKey, nil)
	if err != nil {
		return fmt.Errorf("error initializing Supabase client: %w", err)
	}

	SupabaseClient = client
	Log.Info("Supabase client initialized successfully.")
	return nil
}

// GetSupabaseURL returns the Supabase project URL used for API requests.
func GetSupabaseURL() string {
	return os.Getenv("SUPABASE_URL")
}

// GetSupabaseAnonKey returns the key sent as the apikey header on auth
// requests made on behalf of end users.
func GetSupabaseAnonKey() string {
	key := os.Getenv("SUPABASE_ANON_KEY")
	if key == "" {
		key = os.Getenv("SUPABASE_SERVICE_KEY")
	}
	return key
}
