package uid

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// ErrStableNodeIdentityUnavailable indicates no stable node identity is available.
var ErrStableNodeIdentityUnavailable = errors.New("uid: cannot determine stable node identity (machine-id/hostname unavailable)")

// Snowflake generates time-ordered int64 ids with github.com/bwmarrin/snowflake.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake returns a generator for the given node number.
//
// A negative node derives the number from /etc/machine-id or the hostname, so
// replicas get distinct nodes without extra configuration.
func NewSnowflake(node int64) (*Snowflake, error) {
	if node < 0 {
		derived, err := stableNode()
		if err != nil {
			return nil, err
		}
		node = derived
	}

	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: n}, nil
}

// Generate returns a new id.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func stableNode() (int64, error) {
	src, err := machineIDOrHostname()
	if err != nil {
		return 0, err
	}

	sum := sha256.Sum256([]byte(src))
	max := uint64(1) << snowflake.NodeBits
	return int64(binary.BigEndian.Uint64(sum[:8]) % max), nil
}

func machineIDOrHostname() (string, error) {
	if b, err := os.ReadFile("/etc/machine-id"); err == nil {
		if s := strings.TrimSpace(string(b)); s != "" {
			return s, nil
		}
	}

	if h, err := os.Hostname(); err == nil {
		if h = strings.TrimSpace(h); h != "" {
			return h, nil
		}
	}

	return "", ErrStableNodeIdentityUnavailable
}
