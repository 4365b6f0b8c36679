package watcher

import (
	"context"
	"time"

	"github.com/simonhull/audiometa"

	"github.com/audiolabapp/audiolab-server/internal/service"
)

// probeTimeout bounds how long a single metadata parse may take.
const probeTimeout = 10 * time.Second

// probe reads technical properties from the file itself. Anything the
// parser cannot supply is left nil so record creation falls back to the
// defaults; a file that fails to parse entirely still gets ingested.
func (i *Ingestor) probe(ctx context.Context, scanID, path string) service.PropertyOverrides {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	file, err := audiometa.OpenContext(probeCtx, path)
	if err != nil {
		i.logger.Warn("failed to probe file, using default properties",
			"scan_id", scanID,
			"path", path,
			"error", err)
		return service.PropertyOverrides{}
	}
	defer file.Close()

	var overrides service.PropertyOverrides
	if d := file.Audio.Duration.Seconds(); d > 0 {
		overrides.Duration = &d
	}

	i.logger.Debug("probed file",
		"scan_id", scanID,
		"path", path,
		"container", file.Format.String(),
		"duration", file.Audio.Duration)

	return overrides
}
