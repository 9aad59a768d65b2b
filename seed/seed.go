// Package seed reads the discussion snapshot a board starts from out of JSON documents.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nasermirzaei89/skintalk/discuss"
)

//go:embed data/discussion.json
var embeddedDataset []byte

// Decode reads a `{discussion, comments}` document. Either field may be null.
func Decode(r io.Reader) (*discuss.Snapshot, error) {
	var snapshot discuss.Snapshot

	err := json.NewDecoder(r).Decode(&snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return &snapshot, nil
}

// File is a snapshot source backed by a JSON file on disk.
type File struct {
	Path string
}

var _ discuss.SnapshotSource = (*File)(nil)

func (f *File) Fetch(_ context.Context) (*discuss.Snapshot, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}

	defer func() { _ = file.Close() }()

	return Decode(file)
}

// Bytes is a snapshot source backed by an in-memory JSON document.
type Bytes []byte

var _ discuss.SnapshotSource = Bytes(nil)

func (b Bytes) Fetch(_ context.Context) (*discuss.Snapshot, error) {
	return Decode(bytes.NewReader(b))
}

// Embedded returns the dataset bundled with the binary.
func Embedded() Bytes {
	return Bytes(embeddedDataset)
}
