package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMigratesAndInserts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	err = db.Insert(Entry{
		OccurredAt: time.Now(),
		ReqName:    "example.com",
		ReqQType:   "A",
		StatusKind: "Allow",
		RCode:      "NoError",
	})
	require.NoError(t, err)

	entries, err := db.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "example.com", entries[0].ReqName)
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	for _, name := range []string{"a.test", "b.test", "c.test"} {
		require.NoError(t, db.Insert(Entry{OccurredAt: time.Now(), ReqName: name, ReqQType: "A", StatusKind: "Allow", RCode: "NoError"}))
	}

	entries, err := db.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c.test", entries[0].ReqName)
	assert.Equal(t, "b.test", entries[1].ReqName)
}
