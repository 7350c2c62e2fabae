package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if one is present. Missing files
// are fine; deployed environments set real environment variables instead.
// Called before InitLogger so LOG_LEVEL from the file takes effect, hence the
// returned error instead of a log line.
func LoadEnv() error {
	return godotenv.Load()
}

// GetPort returns the port the API listens on.
func GetPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return port
}

// GetOpenAIKey returns the API key for the refinement upstream.
func GetOpenAIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// GetOpenAIModel returns the chat model used for refinement and skill
// extraction.
func GetOpenAIModel() string {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4.1-nano"
	}
	return model
}
