package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream server-sent events",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "lobby <code>",
		Short: "Stream live events for a lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(lobbyPath(args[0], "events"))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Stream lobby browser updates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents("/api/v1/events/lobby-list")
		},
	})

	return cmd
}

// streamEvents connects to an SSE endpoint and prints events until interrupted
func streamEvents(path string) error {
	out := NewOutput(cfg.Output)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.ServerURL+path, nil)
	if err != nil {
		out.PrintError(err)
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	// No client timeout: the stream stays open until interrupted
	streamClient := &http.Client{}
	resp, err := streamClient.Do(req)
	if err != nil {
		out.PrintError(err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d from event stream", resp.StatusCode)
		out.PrintError(err)
		return err
	}

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Connected to %s\n", path)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var eventName string
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			printEvent(eventName, data)
		case line == "":
			eventName = ""
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		out.PrintError(err)
		return err
	}

	return nil
}

func printEvent(name, data string) {
	if cfg.Output == "json" {
		fmt.Printf("{\"event\":%q,\"data\":%s}\n", name, data)
		return
	}
	if name == "" {
		name = "message"
	}
	fmt.Printf("[%s] %s\n", name, data)
}
