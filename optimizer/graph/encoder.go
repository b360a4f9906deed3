package graph

import "github.com/sentium-labs/bridge-optimizer/optimizer/models"

const (
	// NodeFeatureDim is the fixed width of a chain feature vector.
	NodeFeatureDim = 16
	// EdgeFeatureDim is the fixed width of a hop feature vector:
	// normalized cost, normalized time, and a 4-wide bridge-type one-hot.
	EdgeFeatureDim = 6
)

// EncodeChain turns a chain name plus its registry metadata into a fixed-width
// feature vector. Unknown chains encode as the zero vector so an unseen chain
// degrades scoring instead of aborting it.
//
// Layout for a known chain:
//   - [0] id / 10
//   - [1] avg latency / 1e6
//   - [2] avg cost / 1e5
//   - [3] reliability, unscaled
//   - [4+id] one-hot chain indicator (registry construction bounds id)
func EncodeChain(reg models.ChainRegistry, name string) [NodeFeatureDim]float64 {
	var features [NodeFeatureDim]float64

	meta, ok := reg[name]
	if !ok {
		return features
	}

	features[0] = float64(meta.ID) / 10.0
	features[1] = meta.AvgLatencyMs / 1e6
	features[2] = meta.AvgCost / 1e5
	features[3] = meta.Reliability
	features[4+meta.ID] = 1.0

	return features
}
