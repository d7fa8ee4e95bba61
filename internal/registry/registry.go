// Package registry is the command surface of a harness session: a table
// mapping each node to a control handle, instead of ephemeral shell aliases.
package registry

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/randomizedcoder/go-regtest-harness/internal/chainrpc"
	"github.com/randomizedcoder/go-regtest-harness/internal/lpdrpc"
	"github.com/randomizedcoder/go-regtest-harness/internal/provision"
)

// NodeHandle bundles one node's spec with a pre-filled control client.
type NodeHandle struct {
	Spec   provision.NodeSpec
	Client *lpdrpc.Client
}

// Registry holds the control handles of one session.
// The zero value is empty and usable; Teardown on it is a no-op.
type Registry struct {
	mu      sync.RWMutex
	backend *chainrpc.Client
	nodes   map[int]*NodeHandle
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		nodes: make(map[int]*NodeHandle),
	}
}

// SetBackend records the backend control client.
func (r *Registry) SetBackend(client *chainrpc.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend = client
}

// Backend returns the backend control client, or nil before provisioning.
func (r *Registry) Backend() *chainrpc.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.backend
}

// Register adds a control handle for one node.
func (r *Registry) Register(spec provision.NodeSpec, client *lpdrpc.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nodes == nil {
		r.nodes = make(map[int]*NodeHandle)
	}
	r.nodes[spec.Index] = &NodeHandle{Spec: spec, Client: client}
}

// Node returns the handle for node i, or nil if not registered.
func (r *Registry) Node(i int) *NodeHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nodes[i]
}

// Nodes returns all handles in index order.
func (r *Registry) Nodes() []*NodeHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles := make([]*NodeHandle, 0, len(r.nodes))
	for _, h := range r.nodes {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool {
		return handles[i].Spec.Index < handles[j].Spec.Index
	})
	return handles
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// Teardown removes every binding. Safe to invoke on an empty registry, so a
// session that never started still tears down cleanly.
func (r *Registry) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend = nil
	r.nodes = make(map[int]*NodeHandle)
}

// Shell binding names, one pair per node plus one for the backend.
func nodeAlias(i int) string { return fmt.Sprintf("lpcli%d", i) }
func logAlias(i int) string  { return fmt.Sprintf("lpdlog%d", i) }
func backendAlias() string   { return "chctl" }

// RenderBindings writes eval-able shell aliases for every handle: per node a
// control-client binding pre-filled with the node's data directory and a
// pager binding for its log file, plus the backend control binding.
func (r *Registry) RenderBindings(w io.Writer) {
	if backend := r.Backend(); backend != nil {
		fmt.Fprintf(w, "alias %s='%s'\n", backendAlias(), backend.CommandString())
	}
	for _, h := range r.Nodes() {
		fmt.Fprintf(w, "alias %s='%s'\n", nodeAlias(h.Spec.Index), h.Client.CommandString())
		fmt.Fprintf(w, "alias %s='less +G %s'\n", logAlias(h.Spec.Index), h.Spec.LogPath)
	}
}

// RenderUnset writes the removals for everything RenderBindings produced,
// restoring the parent shell environment. Emitting removals for bindings
// that were never created is harmless.
func (r *Registry) RenderUnset(w io.Writer) {
	fmt.Fprintf(w, "unalias %s 2>/dev/null\n", backendAlias())
	for _, h := range r.Nodes() {
		fmt.Fprintf(w, "unalias %s %s 2>/dev/null\n", nodeAlias(h.Spec.Index), logAlias(h.Spec.Index))
	}
}
