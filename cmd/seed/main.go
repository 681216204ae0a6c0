// Command seed prints a STAFF_ROSTER entry with a bcrypt-hashed PIN.
//
//	go run ./cmd/seed -name ana -role WAITER -pin 4321
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/kiwari-pos/floor/internal/auth"
)

func main() {
	// CLI flags
	name := flag.String("name", "", "Staff member name, used to sign in")
	role := flag.String("role", "WAITER", "MANAGER, WAITER, KITCHEN or BAR")
	pin := flag.String("pin", "", "Sign-in PIN")
	flag.Parse()

	// Fall back to environment variables
	if *pin == "" {
		*pin = os.Getenv("SEED_PIN")
	}

	if strings.TrimSpace(*name) == "" || *pin == "" {
		flag.Usage()
		os.Exit(2)
	}

	if strings.ContainsAny(*name, ":,") {
		log.Fatalf("Name %q must not contain ':' or ','", *name)
	}

	hash, err := auth.HashPIN(*pin)
	if err != nil {
		log.Fatalf("Failed to hash PIN: %v", err)
	}

	entry := auth.FormatEntry(*name, strings.ToUpper(*role), hash)

	// Round-trip through the parser so a bad role fails here, not at server start.
	if _, err := auth.ParseRoster([]string{entry}); err != nil {
		log.Fatalf("Invalid entry: %v", err)
	}

	fmt.Println(entry)
}
