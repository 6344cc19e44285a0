// Package procdump saves a live process's readable memory regions to
// disk and reloads them as a memproc.MemoryReader, for offline analysis
// of a capture taken earlier. It is a read-only replay path: Load never
// grants write access, and Save never mutates the source process.
package procdump

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"memscan/memproc"
)

// maxRegionBytes caps the size of a single region that Save will
// capture; larger regions are skipped to keep a dump bounded.
const maxRegionBytes = 100 * 1024 * 1024

// Metadata identifies the process a dump was taken from.
type Metadata struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
}

type regionMeta struct {
	Base uintptr `json:"base"`
	Size uintptr `json:"size"`
}

func blobFilename(base, size uintptr) string {
	return fmt.Sprintf("blob_0x%x_%d.bin", base, size)
}

// Save captures every readable region reader exposes into dir, which is
// created if necessary. Regions larger than maxRegionBytes or that fail
// to read are recorded in regions.json but have no corresponding blob
// file; Load treats their data as unavailable rather than failing.
func Save(reader memproc.MemoryReader, meta Metadata, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("procdump: create directory: %w", err)
	}

	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("procdump: marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), metaJSON, 0o644); err != nil {
		return fmt.Errorf("procdump: write metadata: %w", err)
	}

	regions := reader.Regions()
	metas := make([]regionMeta, len(regions))
	for i, r := range regions {
		metas[i] = regionMeta{Base: r.Base, Size: r.Size}
	}
	regionsJSON, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return fmt.Errorf("procdump: marshal regions: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "regions.json"), regionsJSON, 0o644); err != nil {
		return fmt.Errorf("procdump: write regions: %w", err)
	}

	for _, r := range regions {
		if r.Size == 0 || r.Size > maxRegionBytes {
			continue
		}
		data := memproc.ReadBytes(reader, r.Base, int(r.Size))
		if data == nil {
			continue
		}
		path := filepath.Join(dir, blobFilename(r.Base, r.Size))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("procdump: write blob at 0x%x: %w", r.Base, err)
		}
	}
	return nil
}

// Dump implements memproc.Reader, backed by a directory written by Save.
// Its cache hint is the constant 1 for the lifetime of the value: a dump
// never changes identity, so anything cached against that hint (a
// signature.Signature or signature.DynamicSignature scan, an
// offsets.Chain read) stays valid for as long as the Dump is held.
type Dump struct {
	Metadata Metadata
	regions  []memproc.Region
	blobs    map[uintptr][]byte
}

var _ memproc.Reader = (*Dump)(nil)

// CacheHint always returns the same non-zero value: a loaded dump is an
// immutable snapshot, so there is never a reason to invalidate a cache
// built against it.
func (d *Dump) CacheHint() memproc.CacheHint {
	return memproc.CacheHint(1)
}

// Load reads a dump directory written by Save. Regions whose blob file
// is missing (skipped at save time) are kept in the region list but
// always fail to read.
func Load(dir string) (*Dump, error) {
	metaBytes, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("procdump: read metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("procdump: unmarshal metadata: %w", err)
	}

	regionsBytes, err := os.ReadFile(filepath.Join(dir, "regions.json"))
	if err != nil {
		return nil, fmt.Errorf("procdump: read regions: %w", err)
	}
	var metas []regionMeta
	if err := json.Unmarshal(regionsBytes, &metas); err != nil {
		return nil, fmt.Errorf("procdump: unmarshal regions: %w", err)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Base < metas[j].Base })

	d := &Dump{Metadata: meta, blobs: make(map[uintptr][]byte)}
	for _, m := range metas {
		d.regions = append(d.regions, memproc.Region{Base: m.Base, Size: m.Size})
		data, err := os.ReadFile(filepath.Join(dir, blobFilename(m.Base, m.Size)))
		if err != nil {
			continue
		}
		d.blobs[m.Base] = data
	}
	return d, nil
}

func (d *Dump) Regions() []memproc.Region {
	return append([]memproc.Region(nil), d.regions...)
}

func (d *Dump) ReadToBuf(addr uintptr, buf []byte) bool {
	want := uintptr(len(buf))
	for _, r := range d.regions {
		if addr < r.Base || addr+want > r.Base+r.Size {
			continue
		}
		data, ok := d.blobs[r.Base]
		if !ok {
			return false
		}
		off := addr - r.Base
		if off+want > uintptr(len(data)) {
			return false
		}
		copy(buf, data[off:off+want])
		return true
	}
	return false
}
