// Package journal keeps a record of every transaction a deployment run sends.
package journal

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Entry describes one mined transaction.
type Entry struct {
	Time     time.Time      `json:"time"`
	Contract string         `json:"contract"`
	Address  common.Address `json:"address"`
	Method   string         `json:"method"` // "deploy" for contract creation
	TxHash   common.Hash    `json:"tx_hash"`
	Block    uint64         `json:"block"`
	GasUsed  uint64         `json:"gas_used"`
	Value    *big.Int       `json:"value,omitempty"`
	Success  bool           `json:"success"`
}

// Recorder captures journal entries.
type Recorder interface {
	Record(Entry)
}

// Memory stores entries in memory for the end-of-run summary.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory creates an empty journal optionally pre-sizing storage.
func NewMemory(capacity int) *Memory {
	if capacity < 0 {
		capacity = 0
	}
	return &Memory{entries: make([]Entry, 0, capacity)}
}

func (m *Memory) Record(entry Entry) {
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
}

// Snapshot returns a copy of the recorded entries.
func (m *Memory) Snapshot() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Reset clears all stored entries.
func (m *Memory) Reset() {
	m.mu.Lock()
	m.entries = m.entries[:0]
	m.mu.Unlock()
}

// TotalGas sums gas used across recorded entries.
func (m *Memory) TotalGas() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total uint64
	for _, e := range m.entries {
		total += e.GasUsed
	}
	return total
}

// Multi fans an entry out to several recorders; nil members are skipped.
type Multi []Recorder

func (m Multi) Record(entry Entry) {
	for _, r := range m {
		if r != nil {
			r.Record(entry)
		}
	}
}
