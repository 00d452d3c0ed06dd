package genestats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuckDB_LoadTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.duckdb")

	d, err := Open(dbPath)
	require.NoError(t, err)
	defer d.Close()

	_, err = d.db.Exec(`CREATE TABLE degs (gene VARCHAR, score DOUBLE, pvalue DOUBLE, padj DOUBLE)`)
	require.NoError(t, err)
	_, err = d.db.Exec(`INSERT INTO degs VALUES
		('MYOD1', 5.2, 0.00001, 0.0004),
		('ACTA1', 3.1, 0.002, 0.03),
		('TP53', -0.4, 0.7, 0.9)`)
	require.NoError(t, err)

	rows, err := d.LoadTable("degs")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "MYOD1", rows[0].Gene)
	assert.Equal(t, 5.2, rows[0].Score)
	assert.True(t, rows[0].HasP)
	assert.Equal(t, 0.0004, rows[0].AdjP)
}

func TestDuckDB_LoadCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "degs.csv")
	content := "gene,score\nHK1,2.5\nPFKM,1.2\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	d, err := Open(":memory:")
	require.NoError(t, err)
	defer d.Close()

	rows, err := d.LoadCSV(csvPath)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "HK1", rows[0].Gene)
	assert.False(t, rows[0].HasP) // no p-value columns in this file
}

func TestDuckDB_MissingRequiredColumns(t *testing.T) {
	d, err := Open(":memory:")
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Query(`SELECT 'A' AS name, 1.0 AS value`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gene and score")
}
