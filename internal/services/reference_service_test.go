package services

import (
	"testing"

	"github.com/aliceinword/legal-time-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultsSeedsOnlyEmptyLists(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "Tester", "tester@example.com") // registration already seeded
	refs := NewReferenceService(db)

	clients, err := refs.List(userID, models.KindClient)
	require.NoError(t, err)
	assert.ElementsMatch(t, models.DefaultClients, clients)

	matters, err := refs.List(userID, models.KindMatter)
	require.NoError(t, err)
	assert.Len(t, matters, 7)

	rates, err := refs.List(userID, models.KindRate)
	require.NoError(t, err)
	assert.Len(t, rates, 5)

	// a replaced non-empty list is not re-seeded
	require.NoError(t, refs.ReplaceAll(userID, models.KindClient, []string{"Acme"}))
	require.NoError(t, refs.EnsureDefaults(userID))
	clients, err = refs.List(userID, models.KindClient)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, clients)
}

func TestReplaceAll(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "Tester", "tester@example.com")
	refs := NewReferenceService(db)

	// blank and whitespace-only lines are dropped, values trimmed
	require.NoError(t, refs.ReplaceAll(userID, models.KindMatter, []string{"  Appeal  ", "", "   ", "Trial"}))
	matters, err := refs.List(userID, models.KindMatter)
	require.NoError(t, err)
	assert.Equal(t, []string{"Appeal", "Trial"}, matters)

	// replacing with an empty set leaves the list empty until re-seeded
	require.NoError(t, refs.ReplaceAll(userID, models.KindMatter, nil))
	matters, err = refs.List(userID, models.KindMatter)
	require.NoError(t, err)
	assert.Empty(t, matters)

	require.NoError(t, refs.EnsureDefaults(userID))
	matters, err = refs.List(userID, models.KindMatter)
	require.NoError(t, err)
	assert.Len(t, matters, len(models.DefaultMatters))
}

func TestReplaceAllIsScopedToKindAndUser(t *testing.T) {
	db := newTestDB(t)
	alice := newTestUser(t, db, "Alice", "alice@example.com")
	bob := newTestUser(t, db, "Bob", "bob@example.com")
	refs := NewReferenceService(db)

	require.NoError(t, refs.ReplaceAll(alice, models.KindRate, []string{"150"}))

	bobRates, err := refs.List(bob, models.KindRate)
	require.NoError(t, err)
	assert.ElementsMatch(t, models.DefaultRates, bobRates)

	aliceClients, err := refs.List(alice, models.KindClient)
	require.NoError(t, err)
	assert.Len(t, aliceClients, len(models.DefaultClients))
}
