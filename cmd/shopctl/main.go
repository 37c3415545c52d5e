// Command shopctl runs maintenance tasks against the shop database.
//
//	shopctl create-admin -account admin -email admin@example.com
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/events"
	"github.com/Skotchmaster/artshop/internal/models"
	"github.com/Skotchmaster/artshop/internal/repo"
	"github.com/Skotchmaster/artshop/internal/service"
	"github.com/Skotchmaster/artshop/internal/transport"
	"github.com/Skotchmaster/artshop/internal/validation"
	"github.com/Skotchmaster/artshop/pkg/config"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "create-admin":
		err = createAdmin(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: shopctl create-admin -account NAME -email EMAIL [-name NAME]")
}

func createAdmin(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	account := fs.String("account", "", "admin account name")
	email := fs.String("email", "", "admin email")
	name := fs.String("name", "", "display name, defaults to the account")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := readPassword()
	if err != nil {
		return err
	}

	driver := config.EnvDefault("DB_DRIVER", repo.DriverMongo)
	dsn := config.EnvDefault("DATABASE_URL", "")
	if dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := repo.Open(ctx, driver, dsn, config.EnvDefault("MONGO_DATABASE", "artshop"))
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	users := &service.UserService{Repo: store, Validator: validation.New(), Events: events.Nop{}}
	u, err := users.RegisterWithRole(ctx, transport.RegisterRequest{
		Account:  *account,
		Password: password,
		Email:    *email,
		Name:     *name,
	}, models.RoleAdmin)
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) && len(ae.Fields) > 0 {
			for field, msg := range ae.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
			}
		}
		return err
	}

	fmt.Printf("admin %s created (%s)\n", u.Account, u.ID)
	return nil
}

// readPassword prompts twice on a terminal and reads one line otherwise.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
