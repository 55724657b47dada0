package csvimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecords_JapaneseHeaders(t *testing.T) {
	input := "患者コード,来院日,施術名,税込金額\n" +
		"P1,2024-01-10,脱毛,30000\n" +
		"P2,2024-01-11,ボトックス,20000\n"

	records, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "P1", records[0]["患者コード"])
	assert.Equal(t, "脱毛", records[0]["施術名"])
	assert.Equal(t, "20000", records[1]["税込金額"])
}

func TestReadRecords_QuotedFields(t *testing.T) {
	input := "患者コード,施術名\n" +
		"P1,\"二重埋没, 両目\"\n" +
		"P2,\"\"\"特別\"\"メニュー\"\n"

	records, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "二重埋没, 両目", records[0]["施術名"])
	assert.Equal(t, `"特別"メニュー`, records[1]["施術名"])
}

func TestReadRecords_MismatchedRowSkipped(t *testing.T) {
	input := "患者コード,来院日\n" +
		"P1,2024-01-10\n" +
		"P2\n" +
		"P3,2024-01-12\n"

	records, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestReadRecords_EmptyInput(t *testing.T) {
	_, err := ReadRecords(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadRecords_HeaderOnly(t *testing.T) {
	records, err := ReadRecords(strings.NewReader("患者コード,来院日\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadRecords_HeaderWhitespaceTrimmed(t *testing.T) {
	input := " 患者コード , 来院日 \nP1,2024-01-10\n"

	records, err := ReadRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "P1", records[0]["患者コード"])
}
