package kms

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"

	apperrors "rds-snapshot-copy/internal/errors"
)

// awsManagedAliasPrefix marks aliases reserved for AWS-managed keys.
const awsManagedAliasPrefix = "alias/aws"

// Key is a customer-managed KMS key candidate for snapshot encryption
type Key struct {
	ID    string
	Alias string // empty when the key has no alias
}

// HasAlias reports whether an alias was matched to the key
func (k Key) HasAlias() bool {
	return k.Alias != ""
}

// Label returns the string shown to the operator when choosing a key:
// the alias when one exists, the raw key id otherwise.
func (k Key) Label() string {
	if k.HasAlias() {
		return k.Alias
	}
	return k.ID
}

// buildAliasIndex maps each target key id to one alias name. Aliases with no
// target key id are bucketed under the empty string, which never matches a
// real key id. When several aliases target the same key the lexicographically
// smallest name wins, so the choice is deterministic across runs.
func buildAliasIndex(aliases []types.AliasListEntry) (map[string]string, error) {
	index := make(map[string]string, len(aliases))
	for _, alias := range aliases {
		if alias.AliasName == nil {
			return nil, apperrors.NewMalformedRecordError("alias", "alias name")
		}
		name := aws.ToString(alias.AliasName)
		target := aws.ToString(alias.TargetKeyId)

		if existing, ok := index[target]; ok && existing <= name {
			continue
		}
		index[target] = name
	}
	return index, nil
}

// classifyKeys joins keys to their aliases and keeps only customer-managed
// keys: those whose matched alias does not start with the reserved
// "alias/aws" prefix, or that have no alias at all. Input order is preserved
// minus exclusions.
func classifyKeys(keys []types.KeyListEntry, aliases []types.AliasListEntry) ([]Key, error) {
	index, err := buildAliasIndex(aliases)
	if err != nil {
		return nil, err
	}

	customerManaged := make([]Key, 0, len(keys))
	for _, entry := range keys {
		if entry.KeyId == nil || *entry.KeyId == "" {
			return nil, apperrors.NewMalformedRecordError("key", "key id")
		}
		id := aws.ToString(entry.KeyId)

		alias, ok := index[id]
		if ok && strings.HasPrefix(alias, awsManagedAliasPrefix) {
			continue
		}

		customerManaged = append(customerManaged, Key{ID: id, Alias: alias})
	}

	return customerManaged, nil
}
