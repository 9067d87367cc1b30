package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new time-ordered int64 ID.  Init must have been called;
// otherwise node 0 is initialized lazily.
func New() int64 {
	if node == nil {
		_ = Init(0)
	}
	return node.Generate().Int64()
}

// Valid reports whether s is a well-formed snowflake, the format Discord
// uses for channel, guild and user ids.
func Valid(s string) bool {
	v, err := snowflake.ParseString(s)
	return err == nil && v.Int64() > 0
}
