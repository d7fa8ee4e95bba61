package lpdrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Error codes reported by lpcli on stderr.
const (
	CodeGeneric           = 1
	CodeInvalidParameters = 2
	CodeInsufficientFunds = 5
)

// ErrInsufficientFunds indicates the supplied UTXO set cannot cover the
// target amount plus fees.
var ErrInsufficientFunds = errors.New("insufficient funds")

// CallError is a structured error returned by the daemon.
type CallError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *CallError) Error() string {
	return fmt.Sprintf("lpcli error %d: %s", e.Code, e.Message)
}

// Unwrap maps dedicated codes onto sentinel errors.
func (e *CallError) Unwrap() error {
	if e.Code == CodeInsufficientFunds {
		return ErrInsufficientFunds
	}
	return nil
}

// Client invokes lpcli against one node's data directory.
type Client struct {
	bin string // lpcli executable path
	dir string // node data directory
}

// New creates a client bound to the node data directory dir.
func New(bin, dir string) *Client {
	return &Client{bin: bin, dir: dir}
}

// Dir returns the node data directory this client targets.
func (c *Client) Dir() string {
	return c.dir
}

// args prepends the data-directory option to the given subcommand.
func (c *Client) args(sub ...string) []string {
	return append([]string{"--lpddir=" + c.dir}, sub...)
}

// run executes an lpcli subcommand, decoding structured errors from stderr.
func (c *Client) run(ctx context.Context, sub ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.bin, c.args(sub...)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if callErr := parseCallError(stderr.Bytes()); callErr != nil {
			return nil, callErr
		}
		return nil, fmt.Errorf("%s %s: %w", c.bin, strings.Join(sub, " "), err)
	}
	return output, nil
}

// parseCallError decodes an lpcli JSON error payload, if present.
func parseCallError(stderr []byte) *CallError {
	trimmed := bytes.TrimSpace(stderr)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var callErr CallError
	if json.Unmarshal(trimmed, &callErr) != nil || callErr.Code == 0 {
		return nil
	}
	return &callErr
}

// Ping reports whether the daemon accepts commands.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.run(ctx, "ping")
	return err
}

// CommandString returns the rendered command line for a subcommand, for
// logging and the shell-binding output.
func (c *Client) CommandString(sub ...string) string {
	return c.bin + " " + strings.Join(c.args(sub...), " ")
}
