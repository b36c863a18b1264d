package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"hash/crc32"
	"io"
	"os"
)

// Result carries the digests of one file, computed in a single read pass.
type Result struct {
	Size   int64
	SHA256 string
	CRC32C uint32
}

// Compute digests the file at path. The sync engine compares the staged
// source against the placed copy with this.
func Compute(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	h := sha256.New()
	crc := crc32.New(crc32.MakeTable(crc32.Castagnoli))

	n, err := io.Copy(io.MultiWriter(h, crc), f)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Size:   n,
		SHA256: hex.EncodeToString(h.Sum(nil)),
		CRC32C: crc.Sum32(),
	}, nil
}
