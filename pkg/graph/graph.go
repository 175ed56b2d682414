package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/patchlayout/pkg/errors"
)

// =============================================================================
// Serialization API
// =============================================================================

// ReadSnapshotFile reads a JSON snapshot file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	var s Snapshot
	err := readFile(path, &s)
	return s, err
}

// ReadSnapshot decodes a JSON snapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	err := decode(r, &s)
	return s, err
}

// ReadResolveRequestFile reads a JSON resolve request file.
func ReadResolveRequestFile(path string) (ResolveRequest, error) {
	var req ResolveRequest
	err := readFile(path, &req)
	return req, err
}

// ReadResolveRequest decodes a JSON resolve request.
func ReadResolveRequest(r io.Reader) (ResolveRequest, error) {
	var req ResolveRequest
	err := decode(r, &req)
	return req, err
}

// Marshal encodes v as indented JSON.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes v as indented JSON to w.
func Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile encodes v as indented JSON into the file at path.
func WriteFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, v)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func readFile(path string, v any) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := decode(f, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	return nil
}
