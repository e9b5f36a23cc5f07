package fund

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"SignalSentinel/internal/model"
)

// LoadState reads the wallet file. found is false when it does not exist yet.
func LoadState(filePath string) (state *model.FundState, found bool, err error) {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return &model.FundState{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read wallet %s: %w", filePath, err)
	}

	state = &model.FundState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, false, fmt.Errorf("parse wallet %s: %w", filePath, err)
	}
	return state, true, nil
}

// SaveState stamps UpdatedAt and replaces the wallet file through a temp file
// in the same directory.
func SaveState(filePath string, state *model.FundState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode wallet: %w", err)
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create wallet dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".wallet-*.json")
	if err != nil {
		return fmt.Errorf("create temp wallet: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write wallet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return os.Rename(tmp.Name(), filePath)
}
