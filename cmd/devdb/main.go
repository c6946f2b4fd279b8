package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/localnerve/ojt-tracker/internal/testutil"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var dbType string
	flag.StringVar(&dbType, "type", "mariadb", "database type: mariadb, mysql or postgres")
	var image string
	flag.StringVar(&image, "image", "", "container image (default depends on -type)")
	var outFile string
	flag.StringVar(&outFile, "o", "", "also write the DB_* settings to this .env file")
	flag.Parse()

	usage := `
Run a disposable database container for local development and print its
DB_* settings. The container is removed on SIGINT or SIGTERM.

Usage:

devdb [-h] [-type mariadb|mysql|postgres] [-image IMAGE] [-o ENV_FILE]

example
  devdb -type postgres -o .env.dev
  ENV_FILE=.env.dev go run ./cmd/server
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	container, err := testutil.StartDatabase(ctx, dbType, image)
	cancel()
	if err != nil {
		log.Fatalf("Failed to start database container: %v\n", err)
	}

	env := container.Env()
	fmt.Print(env)
	if outFile != "" {
		settings, err := godotenv.Unmarshal(env)
		if err == nil {
			err = godotenv.Write(settings, outFile)
		}
		if err != nil {
			log.Printf("Failed to write %s: %v\n", outFile, err)
		} else {
			log.Printf("Wrote database settings to %s\n", outFile)
		}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-sigs
	log.Printf("Received signal: %v, terminating database container...\n", sig)

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := container.Terminate(ctx); err != nil {
		log.Printf("Failed to terminate container: %v\n", err)
	}
}
