package kms

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rds-snapshot-copy/internal/errors"
)

func keyEntries(ids ...string) []types.KeyListEntry {
	entries := make([]types.KeyListEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, types.KeyListEntry{KeyId: aws.String(id)})
	}
	return entries
}

func aliasEntry(name, target string) types.AliasListEntry {
	entry := types.AliasListEntry{AliasName: aws.String(name)}
	if target != "" {
		entry.TargetKeyId = aws.String(target)
	}
	return entry
}

func TestClassifyKeysDropsAWSManaged(t *testing.T) {
	keys := keyEntries("k1")
	aliases := []types.AliasListEntry{aliasEntry("alias/aws/rds", "k1")}

	got, err := classifyKeys(keys, aliases)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClassifyKeysAnnotatesCustomerManaged(t *testing.T) {
	keys := keyEntries("k1", "k2")
	aliases := []types.AliasListEntry{aliasEntry("alias/my-key", "k1")}

	got, err := classifyKeys(keys, aliases)
	require.NoError(t, err)
	assert.Equal(t, []Key{
		{ID: "k1", Alias: "alias/my-key"},
		{ID: "k2", Alias: ""},
	}, got)
}

func TestClassifyKeysPreservesOrderMinusExclusions(t *testing.T) {
	keys := keyEntries("k1", "k2", "k3", "k4")
	aliases := []types.AliasListEntry{
		aliasEntry("alias/aws/ebs", "k2"),
		aliasEntry("alias/app", "k3"),
	}

	got, err := classifyKeys(keys, aliases)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, k := range got {
		ids = append(ids, k.ID)
	}
	assert.Equal(t, []string{"k1", "k3", "k4"}, ids)
}

func TestClassifyKeysNoDuplicatesNoInventedIDs(t *testing.T) {
	keys := keyEntries("k1", "k2")
	aliases := []types.AliasListEntry{
		aliasEntry("alias/a", "k1"),
		aliasEntry("alias/unrelated", "k9"),
	}

	got, err := classifyKeys(keys, aliases)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, k := range got {
		assert.False(t, seen[k.ID], "duplicate key id %s", k.ID)
		seen[k.ID] = true
		assert.Contains(t, []string{"k1", "k2"}, k.ID)
	}
}

func TestClassifyKeysAliasWithoutTargetNeverMatches(t *testing.T) {
	keys := keyEntries("k1")
	aliases := []types.AliasListEntry{aliasEntry("alias/aws/orphan", "")}

	got, err := classifyKeys(keys, aliases)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Key{ID: "k1"}, got[0])
}

func TestClassifyKeysCollisionKeepsSmallestAlias(t *testing.T) {
	keys := keyEntries("k1")
	aliases := []types.AliasListEntry{
		aliasEntry("alias/zeta", "k1"),
		aliasEntry("alias/alpha", "k1"),
		aliasEntry("alias/middle", "k1"),
	}

	got, err := classifyKeys(keys, aliases)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alias/alpha", got[0].Alias)

	// Same result regardless of input order.
	reversed := []types.AliasListEntry{
		aliasEntry("alias/middle", "k1"),
		aliasEntry("alias/alpha", "k1"),
		aliasEntry("alias/zeta", "k1"),
	}
	again, err := classifyKeys(keys, reversed)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestClassifyKeysMissingKeyIDIsFatal(t *testing.T) {
	keys := []types.KeyListEntry{{}}

	_, err := classifyKeys(keys, nil)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeMalformedRecord, appErr.Type)
}

func TestClassifyKeysMissingAliasNameIsFatal(t *testing.T) {
	keys := keyEntries("k1")
	aliases := []types.AliasListEntry{{TargetKeyId: aws.String("k1")}}

	_, err := classifyKeys(keys, aliases)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeMalformedRecord, appErr.Type)
}

func TestKeyLabel(t *testing.T) {
	assert.Equal(t, "alias/my-key", Key{ID: "k1", Alias: "alias/my-key"}.Label())
	assert.Equal(t, "k1", Key{ID: "k1"}.Label())
}
