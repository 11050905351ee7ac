// chess-client is the interactive terminal client for chess-server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/lgbarn/chess-server-go/internal/client"
	"github.com/lgbarn/chess-server-go/internal/output"
)

const programVersion = "0.1.0"

var (
	serverURL = flag.String("server", "http://localhost:8080", "Server base URL (env CHESS_SERVER)")
	plain     = flag.Bool("plain", false, "Draw the board without colours or chess glyphs")
	help      = flag.Bool("h", false, "Show help")
	version   = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if *version {
		fmt.Printf("chess-client version %s\n", programVersion)
		os.Exit(0)
	}

	url := *serverURL
	if v := os.Getenv("CHESS_SERVER"); v != "" && !isFlagSet("server") {
		url = v
	}

	renderer := output.Renderer{ANSI: true, Unicode: true}
	if *plain {
		renderer = output.Renderer{}
	}

	repl := client.NewREPL(client.NewServerFacade(url), os.Stdin, os.Stdout, client.WithRenderer(renderer))
	if err := repl.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: chess-client [options]\n\n")
	fmt.Fprintf(os.Stderr, "Plays chess against other users of a chess-server.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}
