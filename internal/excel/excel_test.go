package excel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/livedict/pkg/models"
)

// recordingInserter remembers inserted pairs and rejects repeats
type recordingInserter struct {
	seen map[models.TranslationKey]bool
	got  []models.Translation
	err  error
}

func newRecordingInserter() *recordingInserter {
	return &recordingInserter{seen: make(map[models.TranslationKey]bool)}
}

func (r *recordingInserter) InsertSingle(_ context.Context, t models.Translation) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if r.seen[t.Key()] {
		return false, nil
	}
	r.seen[t.Key()] = true
	r.got = append(r.got, t)
	return true, nil
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		foreign string
		native  string
		wantErr bool
	}{
		{line: "rojo - red", foreign: "rojo", native: "red"},
		{line: "  azul marino  -  navy blue ", foreign: "azul marino", native: "navy blue"},
		{line: "verde-green", foreign: "verde", native: "green"},
		{line: "bien-conocido - well-known", foreign: "bien-conocido", native: "well-known"},
		{line: `"gris" - "grey"`, foreign: "gris", native: "grey"},
		{line: "no dash here", wantErr: true},
		{line: "a-b-c", wantErr: true},
		{line: "rojo - ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrMalformedLine))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.foreign, got.ForeignWord)
			assert.Equal(t, tt.native, got.NativeWord)
		})
	}
}

func TestColumnToIndex(t *testing.T) {
	assert.Equal(t, 0, columnToIndex("A"))
	assert.Equal(t, 1, columnToIndex("b"))
	assert.Equal(t, 26, columnToIndex("AA"))
	assert.Equal(t, -1, columnToIndex("1"))
	assert.Equal(t, -1, columnToIndex(""))
}

func TestImportText(t *testing.T) {
	input := strings.Join([]string{
		"# colours",
		"rojo - red",
		"",
		"verde - green",
		"rojo - red",
		"broken line",
	}, "\n")
	ins := newRecordingInserter()

	result, err := ImportText(context.Background(), strings.NewReader(input), ins)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Line 6")
	assert.Equal(t, "verde - green", ins.got[1].String())
}

func TestImportText_StorageFailure(t *testing.T) {
	ins := newRecordingInserter()
	ins.err = errors.New("database is locked")

	_, err := ImportText(context.Background(), strings.NewReader("rojo - red\n"), ins)
	assert.Error(t, err)
}

func TestImportCSV(t *testing.T) {
	input := "Foreign,Native\nrojo,red\n,orphan\nazul,\n\"azul marino\",\"navy blue\"\n,\n"
	ins := newRecordingInserter()

	result, err := ImportCSV(context.Background(), strings.NewReader(input), DefaultImportConfig(), ins)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, "azul marino", ins.got[1].ForeignWord)
}

func sampleTranslations() []models.Translation {
	red := models.NewTranslation("rojo", "red")
	red.Metadata.Labels = []models.Label{models.LabelA, models.LabelC}
	red.Metadata.Answers = []models.AnswerRecord{
		models.NewAnswer(models.Incorrect, time.Unix(0, 0)),
		models.NewAnswer(models.Correct, time.Unix(60, 0)),
		models.NewAnswer(models.Correct, time.Unix(120, 0)),
	}
	return []models.Translation{red, models.NewTranslation("azul marino", "navy blue")}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, sampleTranslations()))

	assert.Equal(t, "Foreign,Native,Labels,Correct,Incorrect\nrojo,red,\"A,C\",2,1\nazul marino,navy blue,,0,0\n", buf.String())
}

func TestExportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportText(&buf, sampleTranslations()))

	assert.Equal(t, "rojo - red\nazul marino - navy blue\n", buf.String())
}

func TestExportThenImport(t *testing.T) {
	for _, ext := range []string{".xlsx", ".csv", ".txt"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "words"+ext)
			require.NoError(t, ExportTranslations(path, sampleTranslations()))

			cfg := DefaultImportConfig()
			cfg.FilePath = path
			ins := newRecordingInserter()
			result, err := ImportTranslations(context.Background(), cfg, ins)
			require.NoError(t, err)

			assert.Equal(t, 2, result.Created)
			assert.Empty(t, result.Errors)
			require.Len(t, ins.got, 2)
			assert.True(t, ins.got[0].Equal(models.NewTranslation("rojo", "red")))
			assert.True(t, ins.got[1].Equal(models.NewTranslation("azul marino", "navy blue")))
		})
	}
}

func TestImportTranslations_MissingFile(t *testing.T) {
	cfg := DefaultImportConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "missing.txt")

	_, err := ImportTranslations(context.Background(), cfg, newRecordingInserter())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
