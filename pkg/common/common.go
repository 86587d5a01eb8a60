package common

import (
	"math/rand"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	NA       = "N/A"
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

func setupNode() {
	nodeID := int64(rand.Intn(1023)) //nolint:gosec
	if v := os.Getenv("STOREMOM_NODE_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			nodeID = n % 1024
		}
	}
	var err error
	snowflakeNode, err = snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a snowflake int64 id
func UUIDint64() int64 {
	snowflakeOnce.Do(setupNode)
	return snowflakeNode.Generate().Int64()
}

// UUID returns a snowflake id in base58 string form
func UUID() string {
	snowflakeOnce.Do(setupNode)
	return snowflakeNode.Generate().Base58()
}

// IfEmptyStr returns defval when src is empty
func IfEmptyStr(src string, defval string) string {
	if src == "" {
		return defval
	}
	return src
}

// MustLocation loads a tz location falling back to UTC
func MustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
