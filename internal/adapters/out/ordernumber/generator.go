// Package ordernumber issues order numbers from a snowflake node, so several
// service instances never hand out the same number.
package ordernumber

import (
	"strings"

	"empi/internal/core/domain/model/order"

	"github.com/bwmarrin/snowflake"
)

// SnowflakeGenerator implements ports.OrderNumberGenerator.
type SnowflakeGenerator struct {
	node *snowflake.Node
}

// NewSnowflakeGenerator needs a node id in [0, 1023] that is unique per
// running instance.
func NewSnowflakeGenerator(nodeID int64) (*SnowflakeGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &SnowflakeGenerator{node: node}, nil
}

// Next returns "EMPI-" followed by the id in upper-case base 36.
func (g *SnowflakeGenerator) Next() order.Number {
	return order.Number(order.NumberPrefix + strings.ToUpper(g.node.Generate().Base36()))
}
