package remote

import (
	"errors"

	"github.com/skdltmxn/wiztype/internal/logflags"
)

// scanChunkSize bounds a single read while scanning a region.
const scanChunkSize = 1 << 20

// scanRegions searches regions of r for p. Consecutive chunks overlap by
// p.Len()-1 bytes so matches straddling a chunk boundary are found exactly once.
// Regions that fail to read are skipped.
func scanRegions(r Reader, regions []Region, p *Pattern) ([]uint64, error) {
	log := logflags.RemoteLogger()

	var matches []uint64
	overlap := uint64(p.Len() - 1)

	for _, region := range regions {
		if region.Size < uint64(p.Len()) {
			continue
		}

		for pos := region.Base; pos+overlap < region.End(); {
			size := uint64(scanChunkSize)
			if pos+size > region.End() {
				size = region.End() - pos
			}

			buf, err := r.ReadMemory(pos, int(size))
			if err != nil {
				var rerr *ReadError
				if errors.As(err, &rerr) || errors.Is(err, ErrUnmapped) {
					log.Debugf("skipping unreadable region %s: %v", region, err)
					break
				}
				return nil, err
			}

			for _, off := range p.Match(buf) {
				matches = append(matches, pos+uint64(off))
			}

			if pos+size >= region.End() {
				break
			}
			pos += size - overlap
		}
	}

	return matches, nil
}
