// Command chat is a terminal client for the conversation API served
// behind the edge, useful for exercising the backend without the
// browser widget.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"flexbo-edge/internal/chat"
	"flexbo-edge/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	baseURL := fmt.Sprintf("http://localhost:%s", cfg.Port)
	if env := os.Getenv("EDGE_URL"); env != "" {
		baseURL = strings.TrimSuffix(env, "/")
	}

	store := chat.NewFileStore(filepath.Join(os.TempDir(), "flexbo-chat-thread.json"))
	client := chat.NewClient(baseURL, cfg.PublicAPIKey, store, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		os.Exit(0)
	}()

	fmt.Printf("Connected to %s. Type a question, /reset to start over, /exit to quit.\n", baseURL)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/exit", "/quit", "exit", "quit":
			return
		case "/reset":
			if err := client.Reset(); err != nil {
				fmt.Fprintf(os.Stderr, "reset failed: %v\n", err)
			} else {
				fmt.Println("Conversation reset.")
			}
			continue
		}

		reply, err := client.Send(ctx, line)
		if err != nil {
			fmt.Printf("bot: %s\n", chat.ApologyMessage)
			continue
		}
		fmt.Printf("bot: %s\n", reply)
	}
}
