package main

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopverse/shopverse/internal/auth"
	"github.com/shopverse/shopverse/internal/repository"
)

var testHasher = auth.Hasher{Params: auth.Params{Time: 1, Memory: 8, Threads: 1, KeyLen: 16, SaltLen: 8}}

type fakeCredentials struct {
	rows      map[int64]string
	listCalls int
	updateErr error
}

func (f *fakeCredentials) ListUserCredentials(_ context.Context, afterID int64, limit int) ([]repository.UserCredential, error) {
	f.listCalls++
	ids := make([]int64, 0, len(f.rows))
	for id := range f.rows {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]repository.UserCredential, 0, len(ids))
	for _, id := range ids {
		out = append(out, repository.UserCredential{ID: id, Password: f.rows[id]})
	}
	return out, nil
}

func (f *fakeCredentials) UpdatePassword(_ context.Context, id int64, encoded string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.rows[id] = encoded
	return nil
}

func seededCredentials(t *testing.T) *fakeCredentials {
	t.Helper()
	hashed, err := testHasher.Hash("already-safe")
	require.NoError(t, err)
	return &fakeCredentials{rows: map[int64]string{
		1: "password123",
		2: hashed,
		3: "hunter2",
		4: "letmein",
		5: hashed,
	}}
}

func TestRehashAll(t *testing.T) {
	store := seededCredentials(t)
	var out bytes.Buffer

	st, err := rehashAll(context.Background(), store, testHasher, 2, false, &out)
	require.NoError(t, err)

	assert.Equal(t, stats{Scanned: 5, Rehashed: 3, Unchanged: 2}, st)
	assert.Equal(t, 3, store.listCalls, "two full batches and one short one")
	for id, plain := range map[int64]string{1: "password123", 3: "hunter2", 4: "letmein"} {
		stored := store.rows[id]
		require.True(t, auth.IsHashed(stored), "user %d", id)
		ok, err := auth.VerifyPassword(plain, stored)
		require.NoError(t, err)
		assert.True(t, ok, "user %d keeps the same password", id)
	}
	assert.Contains(t, out.String(), "user 3: plaintext credential rehashed")
}

func TestRehashAll_DryRun(t *testing.T) {
	store := seededCredentials(t)
	var out bytes.Buffer

	st, err := rehashAll(context.Background(), store, testHasher, 10, true, &out)
	require.NoError(t, err)

	assert.Equal(t, stats{Scanned: 5, Rehashed: 3, Unchanged: 2}, st)
	assert.Equal(t, "password123", store.rows[1])
	assert.Contains(t, out.String(), "user 1: plaintext credential found")
}

func TestRehashAll_UpdateError(t *testing.T) {
	store := seededCredentials(t)
	store.updateErr = errors.New("connection reset")

	_, err := rehashAll(context.Background(), store, testHasher, 10, false, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update user 1")
}
