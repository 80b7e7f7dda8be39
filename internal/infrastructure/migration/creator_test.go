package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create sales table", "create_sales_table"},
		{"Create-Sales-Table", "create_sales_table"},
		{"CREATE_SALES_TABLE", "create_sales_table"},
		{"create__sales__table", "create_sales_table"},
		{"add column v2", "add_column_v2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	tmpDir := t.TempDir()

	mf, err := CreateMigration(tmpDir, "create sales table")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// Version is the YYYYMMDDHHMMSS timestamp prefix
	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	for _, p := range []string{mf.UpPath, mf.DownPath} {
		content, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Contains(t, string(content), "create sales table")
	}
}

func TestListMigrations(t *testing.T) {
	tmpDir := t.TempDir()

	// Empty or missing directory lists nothing
	list, err := ListMigrations(filepath.Join(tmpDir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "001_a.up.sql"), []byte("--"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "001_a.down.sql"), []byte("--"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "002_b.up.sql"), []byte("--"), 0o644))

	list, err = ListMigrations(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a", "002_b"}, list)
}
