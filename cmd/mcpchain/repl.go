package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpchain/assistants"
)

// QuitCommand ends the session, compared case insensitive.
const QuitCommand = "quit"

// RunLoop reads queries from in until EOF or quit, and writes the answers to out.
// A failed query prints the error and the loop continues.
func RunLoop(ctx context.Context, in io.Reader, out io.Writer, agent assistants.Answerer) error {
	fmt.Fprintln(out, "\nMCP Client Started!")
	fmt.Fprintf(out, "Type your queries or '%s' to exit.\n", QuitCommand)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(out, "\nQuery: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, QuitCommand) {
			return nil
		}

		answer, err := agent.Answer(ctx, query)
		if err != nil {
			fmt.Fprintf(out, "\nError: %s\n", err.Error())
			continue
		}
		fmt.Fprintf(out, "\n%s\n", answer)
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "failed to read query")
	}
	return nil
}
