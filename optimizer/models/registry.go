package models

import "fmt"

// MaxChainID is the largest chain id the feature encoding can represent.
// The node feature vector reserves positions 4..15 for the per-chain one-hot
// indicator, so ids above 11 would overwrite adjacent feature slots.
const MaxChainID = 11

// ChainMetadata holds the static per-chain statistics used for feature
// encoding. Values are externally supplied and never mutated by the optimizer.
type ChainMetadata struct {
	ID           int     `json:"id" toml:"id"`
	AvgLatencyMs float64 `json:"avg_latency_ms" toml:"avg_latency_ms"`
	AvgCost      float64 `json:"avg_cost" toml:"avg_cost"`
	Reliability  float64 `json:"reliability" toml:"reliability"`
}

// ChainRegistry maps chain names to their static metadata. Build it once at
// construction time and treat it as read-only afterwards.
type ChainRegistry map[string]ChainMetadata

// NewChainRegistry builds a registry from the given metadata map, rejecting
// entries the feature encoder cannot represent.
func NewChainRegistry(chains map[string]ChainMetadata) (ChainRegistry, error) {
	reg := make(ChainRegistry, len(chains))
	for name, meta := range chains {
		if err := reg.Register(name, meta); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register adds one chain to the registry. It fails fast on ids outside the
// reserved one-hot capacity and on out-of-range reliability, instead of
// letting a bad entry silently corrupt feature vectors later.
func (r ChainRegistry) Register(name string, meta ChainMetadata) error {
	if name == "" {
		return fmt.Errorf("chain name is empty")
	}
	if meta.ID < 0 || meta.ID > MaxChainID {
		return fmt.Errorf("chain %s: id %d outside supported range [0,%d]", name, meta.ID, MaxChainID)
	}
	if meta.Reliability < 0 || meta.Reliability > 1 {
		return fmt.Errorf("chain %s: reliability %v outside [0,1]", name, meta.Reliability)
	}
	if existing, ok := r[name]; ok && existing.ID != meta.ID {
		return fmt.Errorf("chain %s: already registered with id %d", name, existing.ID)
	}
	r[name] = meta
	return nil
}

// DefaultRegistry returns the built-in metadata for the chains the bridge
// aggregator ships with.
func DefaultRegistry() ChainRegistry {
	return ChainRegistry{
		"ethereum": {ID: 0, AvgLatencyMs: 15000, AvgCost: 50000, Reliability: 0.99},
		"polkadot": {ID: 1, AvgLatencyMs: 6000, AvgCost: 30000, Reliability: 0.98},
		"bitcoin":  {ID: 2, AvgLatencyMs: 600000, AvgCost: 100000, Reliability: 0.95},
		"cosmos":   {ID: 3, AvgLatencyMs: 7000, AvgCost: 40000, Reliability: 0.97},
		"sentium":  {ID: 4, AvgLatencyMs: 500, AvgCost: 10000, Reliability: 0.99},
	}
}
