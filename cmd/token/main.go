// Command token mints an access token for local testing against the API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dayflow-hr/dayflow-backend/internal/config"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/jwt"
)

func main() {
	employeeID := flag.String("employee", "", "employee id carried by the token")
	userID := flag.String("user", "", "user id carried by the token (defaults to the employee id)")
	role := flag.String("role", string(user.RoleEmployee), "employee, hr or admin")
	flag.Parse()

	if *employeeID == "" {
		fmt.Fprintln(os.Stderr, "-employee is required")
		os.Exit(2)
	}
	if *userID == "" {
		*userID = *employeeID
	}

	parsedRole, err := user.ParseRole(*role)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(*userID, *employeeID, parsedRole)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %d\n", expiresAt)
}
