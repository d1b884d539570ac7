// signage-hash produces the Argon2id password hash for the admin account.
//
// The output goes into the security.admin.password_hash config field (or
// the SIGNAGE_ADMIN_PASSWORD_HASH environment variable). The password is
// read from stdin so it never appears in shell history.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/nordbad/signage-core/internal/auth"
)

func main() {
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
		os.Exit(1)
	}
	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		fmt.Fprintln(os.Stderr, "Error: password must not be empty")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
