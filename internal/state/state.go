// Package state persists the tool's local state between runs: the account credentials and the location of the last post, in a single JSON file. A second file holds an alternate account which can be swapped in.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bsky-cli/bsky/internal/thread"

	"github.com/adrg/xdg"
)

var (
	// ErrNotConfigured means there is no state file yet (run "bsky init").
	ErrNotConfigured = errors.New("no account configured")
	// ErrNoHistory means no post has been created with the current account.
	ErrNoHistory = errors.New("no previous post")
)

type Config struct {
	// Path of the active state file
	Path string
	// Path of the inactive account's state file, for swapping
	AltPath string
	// Scratch path used while swapping; must be in the same directory as the others
	TempPath string
}

// DefaultConfig returns the default state file locations in the user's home directory.
func DefaultConfig() Config {
	if runtime.GOOS == "windows" {
		return ConfigAt(filepath.Join(xdg.Home, "AppData", "Roaming", ".bsky-cli.json"))
	}
	return ConfigAt(filepath.Join(xdg.Home, ".bsky-cli"))
}

// ConfigAt returns a Config with the given active file path, and the alternate and scratch files next to it.
func ConfigAt(path string) Config {
	ext := filepath.Ext(path)
	if ext == filepath.Base(path) {
		// dotfile with no extension, eg ".bsky-cli"
		ext = ""
	}
	base := path[:len(path)-len(ext)]
	return Config{
		Path:     path,
		AltPath:  base + ".alt" + ext,
		TempPath: base + ".tmp" + ext,
	}
}

// Account is the stored login. The password should be an app password.
type Account struct {
	Handle   string `json:"handle"`
	DID      string `json:"did"`
	Password string `json:"password"`
}

// File is the content of a state file.
type File struct {
	Auth    Account              `json:"auth"`
	History *thread.LocationInfo `json:"history,omitempty"`
}

// RequireHistory returns the location of the last post, or ErrNoHistory.
func (f *File) RequireHistory() (thread.LocationInfo, error) {
	if f.History == nil {
		return thread.LocationInfo{}, ErrNoHistory
	}
	return *f.History, nil
}

type Store struct {
	cfg Config
}

func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) Config() Config {
	return s.cfg
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Exists reports whether the active state file is present.
func (s *Store) Exists() (bool, error) {
	return exists(s.cfg.Path)
}

func (s *Store) Load() (*File, error) {
	b, err := os.ReadFile(s.cfg.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", s.cfg.Path, err)
	}
	return &f, nil
}

// Save replaces the active state file. The file is written in full to a temporary file and renamed over the old one, so an interrupted write leaves the previous state intact.
func (s *Store) Save(f *File) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.cfg.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.cfg.Path)+".*")
	if err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.cfg.Path); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// SaveHistory replaces the stored location, keeping everything else in f. f is updated in place.
func (s *Store) SaveHistory(f *File, loc thread.LocationInfo) error {
	f.History = &loc
	return s.Save(f)
}

type SwapResult int

const (
	// neither file existed
	SwapNothing SwapResult = iota
	// active and alternate accounts were exchanged
	SwapExchanged
	// the only account was moved to the alternate slot; no account is active
	SwapDeactivated
	// the alternate account was made active; there is no alternate now
	SwapActivated
)

func (r SwapResult) String() string {
	switch r {
	case SwapExchanged:
		return "swapped accounts"
	case SwapDeactivated:
		return "moved the active account to the alternate slot"
	case SwapActivated:
		return "activated the alternate account"
	default:
		return "no accounts to swap"
	}
}

// Swap exchanges the active and alternate state files. If only one of them exists it is moved to the other slot.
func (s *Store) Swap() (SwapResult, error) {
	mainOK, err := exists(s.cfg.Path)
	if err != nil {
		return SwapNothing, err
	}
	altOK, err := exists(s.cfg.AltPath)
	if err != nil {
		return SwapNothing, err
	}

	switch {
	case mainOK && altOK:
		if err := os.Rename(s.cfg.Path, s.cfg.TempPath); err != nil {
			return SwapNothing, err
		}
		if err := os.Rename(s.cfg.AltPath, s.cfg.Path); err != nil {
			// put the active file back where it was
			if rerr := os.Rename(s.cfg.TempPath, s.cfg.Path); rerr != nil {
				return SwapNothing, errors.Join(err, rerr)
			}
			return SwapNothing, err
		}
		if err := os.Rename(s.cfg.TempPath, s.cfg.AltPath); err != nil {
			return SwapNothing, fmt.Errorf("swap interrupted, previous account left at %s: %w", s.cfg.TempPath, err)
		}
		return SwapExchanged, nil
	case mainOK:
		if err := os.Rename(s.cfg.Path, s.cfg.AltPath); err != nil {
			return SwapNothing, err
		}
		return SwapDeactivated, nil
	case altOK:
		if err := os.Rename(s.cfg.AltPath, s.cfg.Path); err != nil {
			return SwapNothing, err
		}
		return SwapActivated, nil
	default:
		return SwapNothing, nil
	}
}
