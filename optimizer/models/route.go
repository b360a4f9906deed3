package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// BridgeType is the mechanism class of a hop.
type BridgeType string

const (
	BridgeNative    BridgeType = "Native"
	BridgeWrapped   BridgeType = "Wrapped"
	BridgeLiquidity BridgeType = "Liquidity"
	BridgeRelay     BridgeType = "Relay"
)

// BridgeTypes lists the supported bridge mechanisms in one-hot encoding order.
var BridgeTypes = []BridgeType{BridgeNative, BridgeWrapped, BridgeLiquidity, BridgeRelay}

// Known reports whether the bridge type is part of the supported enumeration.
// Unknown types are not an error: encoding degrades them to a zero one-hot.
func (b BridgeType) Known() bool {
	for _, t := range BridgeTypes {
		if b == t {
			return true
		}
	}
	return false
}

// Hop represents one bridge traversal from one chain to another within a route.
type Hop struct {
	FromChain  string     `json:"from_chain" validate:"required"`
	ToChain    string     `json:"to_chain" validate:"required"`
	BridgeType BridgeType `json:"bridge_type" validate:"required"`
	Cost       float64    `json:"cost" validate:"gte=0"`
	TimeMs     float64    `json:"time_ms" validate:"gte=0"`
}

// Route is an ordered sequence of hops connecting a source chain to a target
// chain. Aggregate cost/time are supplied by the caller (sums over hops); the
// optimizer consumes them but never re-derives them.
type Route struct {
	SourceChain     string  `json:"source_chain" validate:"required"`
	TargetChain     string  `json:"target_chain" validate:"required"`
	Hops            []Hop   `json:"hops" validate:"required,min=1,dive"`
	EstimatedCost   float64 `json:"estimated_cost" validate:"gte=0"`
	EstimatedTimeMs float64 `json:"estimated_time_ms" validate:"gte=0"`
	ConfidenceScore float64 `json:"confidence_score" validate:"gte=0,lte=1"`
}

var validate = validator.New()

// Validate checks required fields, value ranges and endpoint consistency.
// Meant to run once at the call boundary; inner layers trust validated routes.
func (r Route) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid route: %w", err)
	}
	if r.SourceChain != r.Hops[0].FromChain {
		return fmt.Errorf("invalid route: source chain %q does not match first hop from-chain %q",
			r.SourceChain, r.Hops[0].FromChain)
	}
	if last := r.Hops[len(r.Hops)-1]; r.TargetChain != last.ToChain {
		return fmt.Errorf("invalid route: target chain %q does not match last hop to-chain %q",
			r.TargetChain, last.ToChain)
	}
	return nil
}
