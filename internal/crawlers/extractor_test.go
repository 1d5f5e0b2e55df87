package crawlers

import (
	"context"
	"testing"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestExtractor_Extract(t *testing.T) {
	rows := [][]string{
		{"Tỉnh Tuyên Quang", "Tên mới", "Tên cũ"},
		{"Hà Nội", "Phường Ba Đình", "Phường Quán Thánh, Phường Trúc Bạch"},
		{"Hà Nội", "Phường Hoàn Kiếm"},
		{"", "Phường X", "Phường Y"},
		{"Hà Nội", "   ", "Phường Y"},
		{"  Hà Nội ", " Xã Sóc Sơn ", " Không sáp nhập "},
	}
	r := newSnapshot(t, pageHTML(rows, ""), nil)

	got := NewExtractor(r).Extract(context.Background())

	assert.Equal(t, []models.Record{
		{Region: "Hà Nội", NewUnitName: "Phường Ba Đình", SourceUnitsText: "Phường Quán Thánh, Phường Trúc Bạch"},
		{Region: "Hà Nội", NewUnitName: "Xã Sóc Sơn", SourceUnitsText: "Không sáp nhập"},
	}, got)
}

func TestExtractor_KeepsDuplicates(t *testing.T) {
	row := []string{"Hà Nội", "Phường Ba Đình", "Không sáp nhập"}
	r := newSnapshot(t, pageHTML([][]string{row, row}, ""), nil)
	assert.Len(t, NewExtractor(r).Extract(context.Background()), 2)
}

func TestExtractor_NoTable(t *testing.T) {
	r := newSnapshot(t, `<html><body><p>loading</p></body></html>`, nil)
	got := NewExtractor(r).Extract(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExtractor_FindError(t *testing.T) {
	r := &recordingRenderer{Renderer: newSnapshot(t, pageHTML(nil, ""), nil), findErr: errInjected}
	assert.Empty(t, NewExtractor(r).Extract(context.Background()))
}
