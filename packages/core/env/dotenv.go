package env

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv parses a .env file and returns key-value pairs.
// Supports KEY=value, export KEY=value, quoted values and # comments.
// Double-quoted values understand \n and escaped quotes, and ${KEY}
// expands keys defined earlier in the same file. The process environment
// is not modified.
func LoadDotEnv(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open env file: %w", err)
	}
	defer file.Close()

	result, err := godotenv.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing env file %s: %w", path, err)
	}
	return result, nil
}
