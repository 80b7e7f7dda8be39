package persistence

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/credit"
	"github.com/backoffice/backend/internal/domain/exchange"
	"github.com/backoffice/backend/internal/domain/orders"
	"github.com/backoffice/backend/internal/domain/sales"
)

// The SQL migrations are written by hand, so nothing ties them to the gorm
// models automatically. This test parses each model and requires that every
// persisted column exists in the CREATE TABLE statement of the migration
// files, catching columns added to a model but forgotten in the schema.
func TestMigrationsCoverModelColumns(t *testing.T) {
	sql := readMigrationSQL(t)

	models := []interface{}{
		&catalog.Product{},
		&catalog.SizeStock{},
		&sales.Sale{},
		&exchange.Exchange{},
		&credit.ClientCredit{},
		&orders.Order{},
	}

	cache := &sync.Map{}
	for _, model := range models {
		s, err := schema.Parse(model, cache, schema.NamingStrategy{})
		require.NoError(t, err)

		t.Run(s.Table, func(t *testing.T) {
			body := createTableBody(t, sql, s.Table)
			for _, column := range s.DBNames {
				assert.Regexp(t,
					regexp.MustCompile(`(?m)^\s*`+regexp.QuoteMeta(column)+`\s`),
					body,
					"column %s.%s is missing from the migrations", s.Table, column,
				)
			}
		})
	}
}

func readMigrationSQL(t *testing.T) string {
	t.Helper()
	dir := filepath.Join("..", "..", "..", "migrations")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var b strings.Builder
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		require.NoError(t, err)
		b.Write(content)
		b.WriteString("\n")
	}
	require.NotEmpty(t, b.String(), "no up migrations found under %s", dir)
	return b.String()
}

// createTableBody extracts the column list of one CREATE TABLE statement.
func createTableBody(t *testing.T, sql, table string) string {
	t.Helper()
	re := regexp.MustCompile(`(?s)CREATE TABLE ` + regexp.QuoteMeta(table) + `\s*\((.*?)\);`)
	match := re.FindStringSubmatch(sql)
	require.NotNil(t, match, "no CREATE TABLE for %s in the migrations", table)
	return match[1]
}
