package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"newsportal/app/config"
	"newsportal/app/logger"
	"newsportal/service"
)

const CliVersion = "1.0.0"

// Swapped out by tests
var (
	exit             = os.Exit
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func main() {
	RealMain(os.Args[1:])
}

// RealMain dispatches the command line, without the program name.
func RealMain(args []string) {
	if len(args) == 0 {
		printHelp()
		exit(1)
		return
	}

	switch strings.ToLower(args[0]) {
	case "help", "-h", "--help":
		printHelp()
	case "version", "--version":
		fmt.Fprintf(stdout, "newsportal version %s\n", CliVersion)
	case "serve":
		serve()
	case "db":
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(stdout, "Error loading config: %v\n", err)
			exit(1)
			return
		}
		if code := service.HandleCommand(cfg, args[1:], stdin, stdout); code != 0 {
			exit(code)
		}
	default:
		fmt.Fprintf(stdout, "Unknown command: %s\n\n", args[0])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	fmt.Fprintln(stdout, `Usage: newsportal <command> [options]

Commands:
  help                                 Display this help message
  version                              Show version information
  serve                                Run the news portal web server
  db <init|clean|stats|gc|backup|restore>
                                       Maintain the session database (see "db help")`)
}

// serve runs the portal until SIGINT or SIGTERM.
func serve() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := service.RunAppServer(ctx, cfg, log); err != nil {
		log.Error("Server stopped with error", slog.String("error", err.Error()))
		exit(1)
		return
	}
	log.Info("Server stopped")
}
