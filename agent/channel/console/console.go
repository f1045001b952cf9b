package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	channelx "github.com/tanpawarit/Chative-Cake-Order-Agent/agent/channel"
)

const DefaultUserID = "console"

// Adapter talks to one local user over a line oriented terminal.
type Adapter struct {
	in         io.Reader
	out        io.Writer
	userID     string
	dispatcher *channelx.Dispatcher
}

func New(in io.Reader, out io.Writer, userID string, dispatcher *channelx.Dispatcher) (*Adapter, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = DefaultUserID
	}
	return &Adapter{in: in, out: out, userID: userID, dispatcher: dispatcher}, nil
}

// Run reads until EOF, "exit" or ctx cancellation. Each line is answered before the
// next one is read.
func (a *Adapter) Run(ctx context.Context) error {
	greeting, err := a.dispatcher.Respond(ctx, channelx.Event{UserID: a.userID, Command: channelx.CommandStart})
	if err != nil {
		return err
	}
	if err := a.print(greeting); err != nil {
		return err
	}

	scanner := bufio.NewScanner(a.in)
	for {
		if _, err := fmt.Fprint(a.out, "You: "); err != nil {
			return err
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		reply, err := a.dispatcher.Respond(ctx, channelx.Event{
			UserID:  a.userID,
			Command: channelx.ParseCommand(line),
			Text:    line,
		})
		if err != nil {
			return err
		}
		if err := a.print(reply); err != nil {
			return err
		}
	}
}

func (a *Adapter) print(reply string) error {
	_, err := fmt.Fprintf(a.out, "Assistant: %s\n", reply)
	return err
}
