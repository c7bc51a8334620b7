package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"5\t1\t1\t1\t1\t1\t10\t20\t30\t12\t95.5\tHello\n" +
	"5\t1\t1\t1\t1\t2\t45\t20\t30\t12\t88.0\tworld\n" +
	"5\t1\t1\t1\t2\t1\t10\t40\t0\t0\t-1\t\n"

func TestParseTSVJoinsWordsAndAveragesConfidence(t *testing.T) {
	text, textJSON, confidence, err := parseTSV([]byte(sampleTSV))
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	require.NotNil(t, confidence)
	assert.InDelta(t, (0.955+0.880)/2, *confidence, 0.0001)

	var regions []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(textJSON), &regions))
	assert.Len(t, regions, 2)
	assert.Equal(t, "Hello", regions[0]["text"])
}

func TestParseTSVSkipsBlankTextRows(t *testing.T) {
	text, _, _, err := parseTSV([]byte(sampleTSV))
	require.NoError(t, err)
	assert.NotContains(t, text, "  ")
}

func TestParseTSVEmptyInputYieldsNoConfidence(t *testing.T) {
	text, textJSON, confidence, err := parseTSV([]byte("level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n"))
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, "[]", textJSON)
	assert.Nil(t, confidence)
}

func TestTesseractBinaryDefaultsWhenUnset(t *testing.T) {
	assert.Equal(t, "tesseract", Tesseract{}.binary())
	assert.Equal(t, "/opt/tesseract", Tesseract{BinaryPath: "/opt/tesseract"}.binary())
}
