package config

import (
	"context"
	"fmt"
	"time"

	getter "github.com/hashicorp/go-getter"
)

// DownloadMetadata fetches a chain metadata file from a remote source (http,
// git, s3; anything go-getter detects) into dst, so deployments can pull the
// registry the aggregator publishes instead of shipping it with the binary.
func DownloadMetadata(src, dst string) error {
	deadline := time.Now().Add(120 * time.Second)
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	client := getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Mode: getter.ClientModeFile,
	}

	if err := client.Get(); err != nil {
		return fmt.Errorf("failed to download chain metadata from %s: %w", src, err)
	}
	return nil
}
