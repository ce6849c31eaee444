package ingest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*SQLSource, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.db")
	descriptor := "sqlite:///" + path

	seed, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = seed.Exec(`
		CREATE TABLE fields (Field_ID TEXT, Crop_type TEXT, Annual_yield TEXT, Elevation REAL);
		INSERT INTO fields VALUES ('F1', '150.0', ' Cassaval ', -12.3);
		INSERT INTO fields VALUES ('F2', '90.5', 'wheat', 800.0);
	`)
	require.NoError(t, err)
	require.NoError(t, seed.Close())

	src, err := OpenSQL(context.Background(), descriptor, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	return src, descriptor
}

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		descriptor string
		driver     string
		dsn        string
		wantErr    bool
	}{
		{"sqlite:///farm_survey.db", "sqlite", "farm_survey.db", false},
		{"sqlite://:memory:", "sqlite", ":memory:", false},
		{"postgres://user@localhost/farm", "postgres", "postgres://user@localhost/farm", false},
		{"postgresql://user@localhost/farm", "postgres", "postgresql://user@localhost/farm", false},
		{"mysql://nope", "", "", true},
		{"farm_survey.db", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			driver, dsn, err := parseDescriptor(tt.descriptor)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.dsn, dsn)
		})
	}
}

func TestOpenSQL_InvalidDescriptor(t *testing.T) {
	_, err := OpenSQL(context.Background(), "mysql://nope", discardLogger())
	require.ErrorIs(t, err, ErrConnection)
}

func TestFetchTable(t *testing.T) {
	src, _ := openTestDB(t)

	tbl, err := src.FetchTable(context.Background(), "SELECT * FROM fields ORDER BY Field_ID")
	require.NoError(t, err)

	assert.Equal(t, []string{"Field_ID", "Crop_type", "Annual_yield", "Elevation"}, tbl.Columns())
	assert.Equal(t, 2, tbl.Len())

	row := tbl.Row(0)
	assert.Equal(t, "F1", row["Field_ID"])
	assert.Equal(t, " Cassaval ", row["Annual_yield"])
	assert.Equal(t, -12.3, row["Elevation"])
}

func TestFetchTable_Errors(t *testing.T) {
	src, _ := openTestDB(t)

	t.Run("malformed query", func(t *testing.T) {
		_, err := src.FetchTable(context.Background(), "SELECT * FROM nowhere")
		require.ErrorIs(t, err, ErrQuery)
	})

	t.Run("empty result is an error", func(t *testing.T) {
		_, err := src.FetchTable(context.Background(), "SELECT * FROM fields WHERE Field_ID = 'F9'")
		require.ErrorIs(t, err, ErrEmptyResult)
	})
}

func TestListTables(t *testing.T) {
	src, _ := openTestDB(t)

	names, err := src.ListTables(context.Background())
	require.NoError(t, err)
	assert.Contains(t, names, "fields")
}
