// Command evaluator runs one inactivity evaluation pass against the server
// database and exits. Schedule it periodically, e.g. daily from cron.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/familyvault/internal/server"
	"github.com/dmitrijs2005/familyvault/internal/server/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Evaluate(ctx); err != nil {
		log.Printf("evaluation finished with errors: %v", err)
		os.Exit(1)
	}
}
