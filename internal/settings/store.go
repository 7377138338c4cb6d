package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"

	"github.com/raoulx24/imgshrink/internal/fs"
)

// Marshal encodes s in the on-disk format: indented JSON with a trailing newline.
func Marshal(s Settings) ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Unmarshal decodes data over Default(), so keys missing from an older
// file keep their defaults. Unknown keys are rejected.
func Unmarshal(data []byte) (Settings, error) {
	s := Default()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return s, nil
}

// Load reads the settings file. A missing file yields Default().
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}
	return Unmarshal(data)
}

// Save writes s atomically through filesystem.
func Save(ctx context.Context, filesystem fs.FS, path string, s Settings) error {
	b, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := filesystem.WriteFileAtomic(ctx, path, b); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
