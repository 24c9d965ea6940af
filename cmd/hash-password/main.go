package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/officesnack/snackcycle/pkg/config"
	"github.com/officesnack/snackcycle/pkg/security"
)

// hash-password reads the admin password from stdin and prints the value for
// SNACKS_ADMIN_PASSWORD_HASH. Only the argon2 settings are read from the environment.
func main() {
	var cfg config.PasswordConfig
	if err := envconfig.Process(config.EnvPrefix, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parse password config: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "admin password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintf(os.Stderr, "read password: %v\n", err)
		os.Exit(1)
	}
	password := strings.TrimRight(line, "\r\n")

	hash, err := security.HashPassword(password, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
