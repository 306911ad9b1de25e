// Package peer maintains the peer related information such as the set
// of know peers and their status.
package peer

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"
	"sync"
)

// Peer represents information about a Node in the network.
type Peer struct {
	Host string `json:"host"`
}

// New contructs a new info value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Parse normalizes an address such as http://127.0.0.1:5001/some/path or
// 127.0.0.1:5001 down to the host:port token used to identify a peer.
func Parse(address string) (Peer, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Peer{}, errors.New("empty address")
	}

	// Addresses without a scheme are parsed as if they had one so the host
	// ends up in the right place.
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return Peer{}, fmt.Errorf("parsing address %q: %w", address, err)
	}

	if u.Hostname() == "" {
		return Peer{}, fmt.Errorf("address %q has no host", address)
	}

	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), defaultPort(u.Scheme))
	}

	return New(host), nil
}

// Match validates if the specified host matches this node. Hosts on the
// same port match when both name this machine, so a node bound to
// 0.0.0.0:9080 matches localhost:9080 and 127.0.0.1:9080.
func (p Peer) Match(host string) bool {
	if p.Host == host {
		return true
	}

	pHost, pPort, err := net.SplitHostPort(p.Host)
	if err != nil {
		return false
	}

	hHost, hPort, err := net.SplitHostPort(host)
	if err != nil {
		return false
	}

	if pPort != hPort {
		return false
	}

	if strings.EqualFold(pHost, hHost) {
		return true
	}

	return isLocal(pHost) && isLocal(hHost)
}

// String implements the fmt.Stringer interface.
func (p Peer) String() string {
	return p.Host
}

// isLocal reports whether the host names this machine.
func isLocal(host string) bool {
	if host == "" || strings.EqualFold(host, "localhost") {
		return true
	}

	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}

// defaultPort returns the well known port for the scheme.
func defaultPort(scheme string) string {
	if scheme == "https" {
		return "443"
	}
	return "80"
}

// =============================================================================

// PeerStatus represents information about the status
// of any given peer.
type PeerStatus struct {
	LatestBlockDigest string `json:"latest_block_digest"`
	LatestBlockIndex  uint64 `json:"latest_block_index"`
	Length            int    `json:"length"`
	KnownPeers        []Peer `json:"known_peers"`
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Len returns the number of peers in the set.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// Copy returns a list of the known peers, leaving out the specified host.
// The list is ordered by host so callers see a stable order.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []Peer
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	slices.SortFunc(peers, func(a, b Peer) int {
		return strings.Compare(a.Host, b.Host)
	})

	return peers
}
