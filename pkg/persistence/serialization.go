package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var ErrStoreClosed = errors.New("persistence layer is closed")

// RecordKey is the storage key suffix of a record.
func RecordKey(chainId uint64, address common.Address) string {
	return fmt.Sprintf("%d:%s", chainId, strings.ToLower(address.Hex()))
}

// ChainKeyPrefix is the key prefix shared by all records of a chain.
func ChainKeyPrefix(chainId uint64) string {
	return fmt.Sprintf("%d:", chainId)
}

// MarshalAccountRecord serializes an AccountRecord to JSON bytes.
func MarshalAccountRecord(r *AccountRecord) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot marshal nil AccountRecord")
	}
	if r.Address == (common.Address{}) {
		return nil, fmt.Errorf("account record has no address")
	}

	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal AccountRecord to JSON: %w", err)
	}
	return data, nil
}

// UnmarshalAccountRecord deserializes an AccountRecord from JSON bytes.
func UnmarshalAccountRecord(data []byte) (*AccountRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var r AccountRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to AccountRecord: %w", err)
	}
	return &r, nil
}

// MarshalFactoryRecord serializes a FactoryRecord to JSON bytes.
func MarshalFactoryRecord(r *FactoryRecord) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot marshal nil FactoryRecord")
	}
	if r.Address == (common.Address{}) {
		return nil, fmt.Errorf("factory record has no address")
	}
	return json.Marshal(r)
}

// UnmarshalFactoryRecord deserializes a FactoryRecord from JSON bytes.
func UnmarshalFactoryRecord(data []byte) (*FactoryRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var r FactoryRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to FactoryRecord: %w", err)
	}
	return &r, nil
}

// SortAccounts orders records oldest first, by address on ties.
func SortAccounts(records []*AccountRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt != records[j].CreatedAt {
			return records[i].CreatedAt < records[j].CreatedAt
		}
		return records[i].Address.Cmp(records[j].Address) < 0
	})
}

func SortFactories(records []*FactoryRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt != records[j].CreatedAt {
			return records[i].CreatedAt < records[j].CreatedAt
		}
		return records[i].Address.Cmp(records[j].Address) < 0
	})
}
