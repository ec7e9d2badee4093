package importer

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/atlaspack/internal/model"
)

func TestDetectCSVDelimiter(t *testing.T) {
	cases := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "file,name\na.png,hero\nb.png,enemy\n", ','},
		{"semicolon", "file;name\na.png;hero\nb.png;enemy\n", ';'},
		{"tab", "file\tname\na.png\thero\n", '\t'},
		{"pipe", "file|name\na.png|hero\n", '|'},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectCSVDelimiter([]byte(tc.data)))
		})
	}
}

func TestDetectColumns_HeaderAliases(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"Image", "Sprite", "Left", "Top", "W", "H"})

	require.True(t, hasHeader)
	assert.Equal(t, 0, mapping.File)
	assert.Equal(t, 1, mapping.Name)
	assert.Equal(t, 2, mapping.X)
	assert.Equal(t, 3, mapping.Y)
	assert.Equal(t, 4, mapping.Width)
	assert.Equal(t, 5, mapping.Height)
}

func TestDetectColumns_NoHeaderFallsBackToPositional(t *testing.T) {
	mapping, hasHeader := DetectColumns([]string{"a.png", "hero", "0", "0", "16", "16"})

	assert.False(t, hasHeader)
	assert.Equal(t, 0, mapping.File)
	assert.Equal(t, 1, mapping.Name)
	assert.Equal(t, 5, mapping.Height)
}

func TestImportCSVFromReader_WithHeaderAndClip(t *testing.T) {
	data := "file,name,x,y,width,height\nsheet.png,hero,0,0,16,16\nsheet.png,enemy,16,0,16,16\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	require.Empty(t, result.Errors)
	require.Len(t, result.Sprites, 2)
	assert.Equal(t, "hero", result.Sprites[0].Name)
	require.NotNil(t, result.Sprites[0].Clip)
	assert.Equal(t, model.NewRect(0, 0, 16, 16), *result.Sprites[0].Clip)
	assert.Equal(t, model.NewRect(16, 0, 16, 16), *result.Sprites[1].Clip)
}

func TestImportCSVFromReader_NameDefaultsToFileStem(t *testing.T) {
	data := "file,name\nsprites/walk_01.png,\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	require.Empty(t, result.Errors)
	require.Len(t, result.Sprites, 1)
	assert.Equal(t, "walk_01", result.Sprites[0].Name)
	assert.Nil(t, result.Sprites[0].Clip)
}

func TestImportCSVFromReader_IncompleteClipWarns(t *testing.T) {
	data := "file,name,x,y,width,height\na.png,hero,5,5,,\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	require.Empty(t, result.Errors)
	require.Len(t, result.Sprites, 1)
	assert.Nil(t, result.Sprites[0].Clip, "partial clip falls back to full image")
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[len(result.Warnings)-1], "incomplete clip rectangle")
}

func TestImportCSVFromReader_InvalidClipValueErrors(t *testing.T) {
	data := "file,x,y,width,height\na.png,0,0,wide,16\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	assert.Empty(t, result.Sprites)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "invalid clip value")
}

func TestImportCSVFromReader_MissingFileColumnErrors(t *testing.T) {
	data := "name,x,y\nhero,0,0\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "Required column not found")
}

func TestImportCSVFromReader_SkipsEmptyRows(t *testing.T) {
	data := "a.png,one\n,\nb.png,two\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	require.Empty(t, result.Errors)
	assert.Len(t, result.Sprites, 2)
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprites.csv")
	data := "file;name\na.png;hero\nb.png;enemy\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	result := ImportCSV(path)

	require.Empty(t, result.Errors)
	assert.Len(t, result.Sprites, 2)
	assert.Contains(t, result.Warnings, "Detected semicolon delimiter")
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))

	result := ImportCSV(path)

	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "empty")
}

func TestImportExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprites.xlsx")
	f := excelize.NewFile()
	headers := []string{"File", "Name", "X", "Y", "Width", "Height"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, h))
	}
	row := []interface{}{"sheet.png", "hero", 0, 0, 16, 16}
	for i, v := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, v))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result := ImportFile(path)

	require.Empty(t, result.Errors)
	require.Len(t, result.Sprites, 1)
	assert.Equal(t, "hero", result.Sprites[0].Name)
	require.NotNil(t, result.Sprites[0].Clip)
	assert.Equal(t, model.NewRect(0, 0, 16, 16), *result.Sprites[0].Clip)
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.png")
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Pix[0], img.Pix[3] = 200, 255
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, img))
	require.NoError(t, file.Close())

	buf, err := LoadImage(path)

	require.NoError(t, err)
	assert.Equal(t, 3, buf.Width())
	assert.Equal(t, 2, buf.Height())
	assert.Equal(t, uint8(255), buf.Alpha(0, 0))
}

func TestLoadImage_MissingFile(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "nope.png"))

	assert.Error(t, err)
}
