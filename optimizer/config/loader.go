package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sentium-labs/bridge-optimizer/optimizer/models"
)

// registryFile is the on-disk shape of the chain metadata config.
type registryFile struct {
	Chains map[string]models.ChainMetadata `toml:"chains" json:"chains"`
}

// LoadRegistry reads a chain metadata file and builds the registry. TOML is
// the default format; files ending in .json parse as JSON.
func LoadRegistry(path string) (models.ChainRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain metadata file: %w", err)
	}

	var file registryFile
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse JSON chain metadata: %w", err)
		}
	} else {
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse TOML chain metadata: %w", err)
		}
	}

	if len(file.Chains) == 0 {
		return nil, fmt.Errorf("no chains in metadata file %s", path)
	}

	return models.NewChainRegistry(file.Chains)
}
