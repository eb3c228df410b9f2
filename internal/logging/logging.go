// README: zerolog setup; console writer for development, JSON elsewhere.
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. Pretty console output unless
// ROVIS_ENV=production, in which case structured JSON at info level.
func Init() {
	if os.Getenv("ROVIS_ENV") == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
		return
	}
	log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}
