package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMarkdown(t *testing.T) {
	var records []models.Record
	for i := 0; i < 12; i++ {
		for j := 0; j <= i; j++ {
			records = append(records, models.Record{
				Region:          fmt.Sprintf("Tỉnh %02d", i),
				NewUnitName:     fmt.Sprintf("Xã %d-%d", i, j),
				SourceUnitsText: "Xã A, Xã B",
			})
		}
	}
	records = append(records, models.Record{Region: "Tỉnh 00", NewUnitName: "Xã X", SourceUnitsText: normalize.UnchangedSentinel})
	doc := normalize.Normalize(records, models.Metadata{Source: "VnExpress", URL: "https://example.com", LastUpdated: "2025-07-01"})

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, doc))
	out := buf.String()

	assert.Contains(t, out, "# 行政单位合并统计")
	assert.Contains(t, out, "VnExpress")
	assert.Contains(t, out, "```mermaid")
	assert.Contains(t, out, "pie")
	assert.Contains(t, out, "2个来源")
	assert.Contains(t, out, "Tỉnh 11")
	// 只列出前10个省份
	assert.NotContains(t, out, "Tỉnh 01")
	assert.True(t, strings.Index(out, "Tỉnh 11") < strings.Index(out, "Tỉnh 10"))
}

func TestWriteMarkdown_NoMerged(t *testing.T) {
	doc := normalize.Normalize([]models.Record{
		{Region: "Huế", NewUnitName: "Phường Thuận Hóa", SourceUnitsText: normalize.UnchangedSentinel},
	}, models.Metadata{})

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, doc))

	assert.Contains(t, buf.String(), "没有合并单位")
	assert.NotContains(t, buf.String(), "```mermaid")
}
