// Package deployments persists what has been deployed on each network so
// later runs can reuse contracts and other routines can look them up by name.
package deployments

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var ErrNotFound = errors.New("deployment not found")

const chainIDFile = ".chainId"

// Record is one contract deployment on one network.
type Record struct {
	Name            string          `json:"-"`
	Address         common.Address  `json:"address"`
	ABI             json.RawMessage `json:"abi"`
	TransactionHash common.Hash     `json:"transactionHash"`
	BlockNumber     uint64          `json:"blockNumber"`
	GasUsed         uint64          `json:"gasUsed"`
	Args            []string        `json:"args"`
	Checksum        common.Hash     `json:"checksum"` // keccak(bytecode || packed constructor args)
	DeployedAt      time.Time       `json:"deployedAt"`
}

// Store keeps one JSON file per contract under <root>/<network>.
type Store struct {
	mu      sync.Mutex
	dir     string
	chainID uint64
}

// Open prepares the network directory and pins it to chainID. Reopening a
// directory recorded for another chain is an error.
func Open(root, network string, chainID uint64) (*Store, error) {
	if network == "" {
		return nil, errors.New("network name required")
	}
	dir := filepath.Join(root, network)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create deployments dir: %w", err)
	}

	idPath := filepath.Join(dir, chainIDFile)
	raw, err := os.ReadFile(idPath)
	switch {
	case err == nil:
		recorded, perr := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
		if perr != nil {
			return nil, fmt.Errorf("parse %s: %w", idPath, perr)
		}
		if recorded != chainID {
			return nil, fmt.Errorf("deployments for %s belong to chain %d, connected to %d", network, recorded, chainID)
		}
	case errors.Is(err, os.ErrNotExist):
		if err := os.WriteFile(idPath, []byte(strconv.FormatUint(chainID, 10)), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", idPath, err)
		}
	default:
		return nil, fmt.Errorf("read %s: %w", idPath, err)
	}
	return &Store{dir: dir, chainID: chainID}, nil
}

// Load opens an existing network directory using the chain id recorded in it.
func Load(root, network string) (*Store, error) {
	dir := filepath.Join(root, network)
	raw, err := os.ReadFile(filepath.Join(dir, chainIDFile))
	if err != nil {
		return nil, fmt.Errorf("no deployments recorded for %s: %w", network, err)
	}
	chainID, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s chain id: %w", network, err)
	}
	return &Store{dir: dir, chainID: chainID}, nil
}

func (s *Store) ChainID() uint64 { return s.chainID }
func (s *Store) Dir() string      { return s.dir }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) Get(name string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(name)
}

func (s *Store) get(name string) (*Record, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read deployment %s: %w", name, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode deployment %s: %w", name, err)
	}
	rec.Name = name
	return &rec, nil
}

// Put writes rec atomically, replacing any previous record of the same name.
func (s *Store) Put(rec *Record) error {
	if rec == nil || rec.Name == "" {
		return errors.New("deployment record needs a name")
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode deployment %s: %w", rec.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(s.dir, "."+rec.Name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write deployment %s: %w", rec.Name, err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write deployment %s: %w", rec.Name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write deployment %s: %w", rec.Name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(rec.Name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write deployment %s: %w", rec.Name, err)
	}
	return nil
}

// List returns every record sorted by name.
func (s *Store) List() ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || !strings.HasSuffix(n, ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(n, ".json"))
	}
	sort.Strings(names)
	out := make([]*Record, 0, len(names))
	for _, name := range names {
		rec, err := s.get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
