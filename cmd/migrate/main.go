// Command migrate brings the person table up to date, or drops it with
// "migrate reset". Connection flags may come before or after the command.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gotrepository/internal/app"
	"github.com/dmitrijs2005/gotrepository/internal/config"
	"github.com/dmitrijs2005/gotrepository/internal/flagx"
)

var commands = map[string]func(*app.App, context.Context) error{
	"up":    (*app.App).Migrate,
	"reset": (*app.App).Reset,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// command picks the subcommand from args; "up" when none is given.
func command(args []string) (string, error) {
	rest := flagx.Positional(args)
	if len(rest) == 0 {
		return "up", nil
	}
	if _, ok := commands[rest[0]]; !ok {
		return "", fmt.Errorf("unknown command %q (want up or reset)", rest[0])
	}
	return rest[0], nil
}

func run(args []string) int {
	name, err := command(args)
	if err != nil {
		log.Print(err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApp(ctx, config.LoadConfig())
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	defer a.Close()

	if err := commands[name](a, ctx); err != nil {
		log.Printf("%v", err)
		return 1
	}
	return 0
}
