package environment

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Production defines the prod environment
const Production = "prod"

// Staging defines the staging environment
const Staging = "staging"

// Dev defines the dev environment
const Dev = "dev"

// Environment holds all configuration read from the .env file
type Environment struct {
	Environment   string `mapstructure:"APP_ENV"`
	Port          string `mapstructure:"PORT"`
	Database      string `mapstructure:"DATABASE"`
	DatabaseUrl   string `mapstructure:"DATABASE_URL"`
	Redis         string `mapstructure:"REDIS"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	BlockDurationMinutes string `mapstructure:"BLOCK_DURATION_MINUTES"`
	HorizonDays          string `mapstructure:"HORIZON_DAYS"`
	SkipWeekends         string `mapstructure:"SKIP_WEEKENDS"`
	DebounceMilliseconds string `mapstructure:"DEBOUNCE_MILLISECONDS"`
	ThrottleSeconds      string `mapstructure:"THROTTLE_SECONDS"`

	GoogleCalendarToken string `mapstructure:"GOOGLE_CALENDAR_TOKEN"`
	GoogleClientID      string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret  string `mapstructure:"GOOGLE_CLIENT_SECRET"`
}

// Global is the process wide environment
var Global Environment

// Initialize reads the .env file into Global, falling back to the process
// environment when no file exists
func Initialize() {
	data, err := godotenv.Read(".env")
	if err != nil {
		data = map[string]string{}
		for _, pair := range os.Environ() {
			parts := strings.SplitN(pair, "=", 2)
			if len(parts) == 2 {
				data[parts[0]] = parts[1]
			}
		}
	}

	err = mapstructure.Decode(data, &Global)
	if err != nil {
		panic(err)
	}
}
