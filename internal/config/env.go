package config

import "github.com/joho/godotenv"

// LoadEnv loads variables from a .env file in the working directory without
// overriding variables that are already set. The returned error satisfies
// os.IsNotExist when there is no such file.
func LoadEnv(filenames ...string) error {
	return godotenv.Load(filenames...)
}
