package excel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pilemap/internal/errors"
	"pilemap/ports"
)

// buildWorkbook assembles an in-memory xlsx with the given sheets. Each sheet
// gets one marker row so it is never empty.
func buildWorkbook(t *testing.T, sheets ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		require.NoError(t, f.SetSheetRow(name, "A1", &[]interface{}{"Table", "Pole", "X", "Y", "Z"}))
		require.NoError(t, f.SetSheetRow(name, "A2", &[]interface{}{1, 1, 100, 200, 10.5}))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLoadResolvesTargetSheet(t *testing.T) {
	content := buildWorkbook(t, "Summary", "Piling Information", "Notes")
	loader := NewLoader()

	loaded, err := loader.Load(context.Background(), ports.LoadRequest{
		Content:     content,
		Filename:    "survey.xlsx",
		TargetSheet: "piling information",
	})
	require.NoError(t, err)
	assert.Equal(t, "Piling Information", loaded.Name)
	assert.Equal(t, 2, loaded.Rows.RowCount())
}

func TestLoadResolvesBySubstring(t *testing.T) {
	content := buildWorkbook(t, "Summary", "2024 Piling Information Rev B")
	loader := NewLoader()

	loaded, err := loader.Load(context.Background(), ports.LoadRequest{
		Content:     content,
		Filename:    "survey.xlsx",
		TargetSheet: "piling information",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024 Piling Information Rev B", loaded.Name)
}

func TestLoadSheetNotFound(t *testing.T) {
	content := buildWorkbook(t, "Summary", "Notes")
	loader := NewLoader()

	_, err := loader.Load(context.Background(), ports.LoadRequest{
		Content:     content,
		Filename:    "survey.xlsx",
		TargetSheet: "piling information",
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeSheetNotFound, errors.GetCode(err))
}

func TestLoadSingleSheetMode(t *testing.T) {
	loader := NewLoader()

	loaded, err := loader.Load(context.Background(), ports.LoadRequest{
		Content:     buildWorkbook(t, "Anything At All"),
		Filename:    "custom.xlsx",
		SingleSheet: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Anything At All", loaded.Name)
}

func TestLoadSingleSheetModeRejectsMultiple(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Load(context.Background(), ports.LoadRequest{
		Content:     buildWorkbook(t, "One", "Two"),
		Filename:    "custom.xlsx",
		SingleSheet: true,
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeMultipleSheets, errors.GetCode(err))
}

func TestLoadEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), "Piling Information"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	loader := NewLoader()
	_, err = loader.Load(context.Background(), ports.LoadRequest{
		Content:     buf.Bytes(),
		Filename:    "survey.xlsx",
		TargetSheet: "piling information",
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeEmptySheet, errors.GetCode(err))
}

func TestLoadUnsupportedFormat(t *testing.T) {
	loader := NewLoader()
	for _, filename := range []string{"survey.pdf", "survey", "survey.xls"} {
		_, err := loader.Load(context.Background(), ports.LoadRequest{
			Content:  []byte("whatever"),
			Filename: filename,
		})
		require.Error(t, err, filename)
		assert.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err), filename)
	}
}

func TestLoadCorruptWorkbook(t *testing.T) {
	loader := NewLoader()
	_, err := loader.Load(context.Background(), ports.LoadRequest{
		Content:  []byte("this is not a zip archive"),
		Filename: "survey.xlsx",
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnsupportedFormat, errors.GetCode(err))
}

func TestLoadCSV(t *testing.T) {
	content := []byte("Table,Pole,X,Y,Z\n1,1,100,200,10.5\n")
	loader := NewLoader()

	loaded, err := loader.Load(context.Background(), ports.LoadRequest{
		Content:  content,
		Filename: "export.csv",
	})
	require.NoError(t, err)
	assert.Equal(t, "export", loaded.Name)
	assert.Equal(t, 2, loaded.Rows.RowCount())
	assert.Equal(t, "10.5", loaded.Rows.Cell(1, 4))
}

func TestLoadTSV(t *testing.T) {
	content := []byte("Table\tPole\tX\tY\tZ\n1\t1\t100\t200\t10.5\n")
	loader := NewLoader()

	loaded, err := loader.Load(context.Background(), ports.LoadRequest{
		Content:  content,
		Filename: "export.tsv",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, len(loaded.Rows[0]))
}

func TestLoadDelimiterSniffing(t *testing.T) {
	// .txt with semicolons and no commas sniffs to semicolon.
	content := []byte("Table;Pole;X;Y;Z\n1;1;100;200;10.5\n")
	loader := NewLoader()

	loaded, err := loader.Load(context.Background(), ports.LoadRequest{
		Content:  content,
		Filename: "export.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pole", loaded.Rows.Cell(0, 1))
}

func TestLoadRaggedRows(t *testing.T) {
	content := []byte("Table,Pole,X,Y,Z\n1,1\n1,2,100,200,10.5\n")
	loader := NewLoader()

	loaded, err := loader.Load(context.Background(), ports.LoadRequest{
		Content:  content,
		Filename: "export.csv",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Rows.RowCount())
	assert.Equal(t, "", loaded.Rows.Cell(1, 4), "short rows read as empty cells")
}
