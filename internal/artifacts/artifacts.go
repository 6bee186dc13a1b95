// Package artifacts loads compiled contracts (ABI + creation bytecode) produced
// by hardhat or foundry.
package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var ErrNotFound = errors.New("artifact not found")

// Artifact is a compiled contract ready for deployment.
type Artifact struct {
	Name     string
	Source   string
	Path     string
	RawABI   json.RawMessage
	ABI      abi.ABI
	Bytecode []byte
}

type rawArtifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     bytecodeField   `json:"bytecode"`
}

// bytecodeField accepts hardhat's "0x.." string and foundry's {"object": "0x.."}.
type bytecodeField string

func (b *bytecodeField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = bytecodeField(s)
		return nil
	}
	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("bytecode: %w", err)
	}
	*b = bytecodeField(obj.Object)
	return nil
}

// Parse decodes one artifact file. name is used when the file does not carry contractName.
func Parse(name string, data []byte) (*Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", name, err)
	}
	if raw.ContractName != "" {
		name = raw.ContractName
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s: missing abi", name)
	}
	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("artifact %s: parse abi: %w", name, err)
	}
	code := strings.TrimSpace(string(raw.Bytecode))
	if strings.Contains(code, "__$") {
		return nil, fmt.Errorf("artifact %s: bytecode has unlinked libraries", name)
	}
	if code == "" || code == "0x" {
		return nil, fmt.Errorf("artifact %s: empty bytecode (abstract contract or interface?)", name)
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	bytecode, err := hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: decode bytecode: %w", name, err)
	}
	return &Artifact{
		Name:     name,
		Source:   raw.SourceName,
		RawABI:   raw.ABI,
		ABI:      parsed,
		Bytecode: bytecode,
	}, nil
}

// Store indexes every artifact file under a directory by contract name.
type Store struct {
	dir   string
	index map[string][]string
}

// Open walks dir once; files are parsed lazily by Find.
func Open(dir string) (*Store, error) {
	s := &Store{dir: dir, index: make(map[string][]string)}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" || d.Name() == "cache" {
				return filepath.SkipDir
			}
			return nil
		}
		base := d.Name()
		if !strings.HasSuffix(base, ".json") || strings.HasSuffix(base, ".dbg.json") {
			return nil
		}
		name := strings.TrimSuffix(base, ".json")
		s.index[name] = append(s.index[name], path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan artifacts %s: %w", dir, err)
	}
	return s, nil
}

// Names lists indexed contract names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.index))
	for name := range s.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) Find(name string) (*Artifact, error) {
	paths := s.index[name]
	switch len(paths) {
	case 0:
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, name, s.dir)
	case 1:
	default:
		return nil, fmt.Errorf("artifact %s is ambiguous: %s", name, strings.Join(paths, ", "))
	}
	data, err := os.ReadFile(paths[0])
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}
	a, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	a.Path = paths[0]
	return a, nil
}
