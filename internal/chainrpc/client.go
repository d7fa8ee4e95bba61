// Package chainrpc controls the blockchain backend through its CLI tool.
//
// The backend exposes its control surface as chainctl subcommands; this
// client shells out and parses the JSON the tool prints. All calls are
// stateless request/response.
package chainrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// SyncInfo is the backend's synchronization state.
type SyncInfo struct {
	InitialSync bool  `json:"initial_sync"`
	Blocks      int64 `json:"blocks"`
	Headers     int64 `json:"headers"`
}

// Client invokes backend control commands.
type Client struct {
	bin     string // chainctl executable path
	dataDir string // backend data directory, empty to use the tool's default
}

// New creates a client for the chainctl executable at bin.
func New(bin, dataDir string) *Client {
	return &Client{bin: bin, dataDir: dataDir}
}

// args prepends the data-directory option to the given subcommand.
func (c *Client) args(sub ...string) []string {
	var out []string
	if c.dataDir != "" {
		out = append(out, "--datadir="+c.dataDir)
	}
	return append(out, sub...)
}

// run executes a chainctl subcommand and returns its stdout.
func (c *Client) run(ctx context.Context, sub ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.bin, c.args(sub...)...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.bin, strings.Join(sub, " "), err)
	}
	return output, nil
}

// Ping reports whether the backend accepts commands.
// Exit success means alive; any failure means not ready yet.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.run(ctx, "ping")
	return err
}

// GetSyncInfo queries the backend's synchronization state.
func (c *Client) GetSyncInfo(ctx context.Context) (SyncInfo, error) {
	output, err := c.run(ctx, "getsyncinfo")
	if err != nil {
		return SyncInfo{}, err
	}

	var info SyncInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return SyncInfo{}, fmt.Errorf("parse getsyncinfo output: %w", err)
	}
	return info, nil
}

// NewAddress generates a fresh receiving address.
func (c *Client) NewAddress(ctx context.Context) (string, error) {
	output, err := c.run(ctx, "newaddress")
	if err != nil {
		return "", err
	}

	addr := strings.TrimSpace(string(output))
	if addr == "" {
		return "", fmt.Errorf("newaddress returned empty output")
	}
	return addr, nil
}

// Generate mines n blocks paying to addr.
func (c *Client) Generate(ctx context.Context, n int, addr string) error {
	_, err := c.run(ctx, "generate", strconv.Itoa(n), addr)
	return err
}

// Stop asks the backend to shut down through its control interface.
// The backend is stopped this way rather than with a raw signal.
func (c *Client) Stop(ctx context.Context) error {
	_, err := c.run(ctx, "stop")
	return err
}

// Bin returns the chainctl executable path.
func (c *Client) Bin() string {
	return c.bin
}

// CommandString returns the rendered command line for a subcommand, for
// logging and the shell-binding output.
func (c *Client) CommandString(sub ...string) string {
	return c.bin + " " + strings.Join(c.args(sub...), " ")
}
