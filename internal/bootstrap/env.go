package bootstrap

import (
	"log"

	"github.com/joho/godotenv"
)

// Loadenv loads variables from a .env file in the working directory when one exists.
// It runs before the zap logger is built, so it reports through the standard logger.
func Loadenv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}
