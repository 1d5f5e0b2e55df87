package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/RecoveryAshes/unitcrawl/internal/models"
	"github.com/RecoveryAshes/unitcrawl/internal/normalize"
	"github.com/stretchr/testify/require"
)

func testDocument() *models.OutputDocument {
	records := []models.Record{
		{Region: "Hà Nội", NewUnitName: "Phường Ba Đình", SourceUnitsText: "Phường Quán Thánh, Phường Trúc Bạch"},
		{Region: "Cao Bằng", NewUnitName: "Xã Quảng Uyên", SourceUnitsText: normalize.UnchangedSentinel},
		{Region: "Hà Nội", NewUnitName: "Xã Sóc Sơn", SourceUnitsText: normalize.UnchangedSentinel},
	}
	return normalize.Normalize(records, models.Metadata{Source: "test", URL: "https://example.com", LastUpdated: "2025-07-01"})
}

func TestExportFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	path := filepath.Join(t.TempDir(), "out", "units.db")

	require.NoError(t, ExportFile(ctx, path, testDocument()))
	// 重复导出覆盖旧数据
	require.NoError(t, ExportFile(ctx, path, testDocument()))

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	var provinces, units, oldUnits int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM provinces`).Scan(&provinces))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM units`).Scan(&units))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM old_units`).Scan(&oldUnits))
	require.Equal(t, 2, provinces)
	require.Equal(t, 3, units)
	require.Equal(t, 2, oldUnits)

	var name string
	var total int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT name, total_units FROM provinces WHERE rank = 1`).Scan(&name, &total))
	require.Equal(t, "Hà Nội", name)
	require.Equal(t, 2, total)

	var mergedFrom int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT merged_from FROM units WHERE new_name = ?`, "Phường Ba Đình").Scan(&mergedFrom))
	require.Equal(t, 2, mergedFrom)

	var first string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT o.name FROM old_units o JOIN units u ON u.id = o.unit_id WHERE u.new_name = ? AND o.position = 0`,
		"Phường Ba Đình").Scan(&first))
	require.Equal(t, "Phường Quán Thánh", first)

	var lastUpdated string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'last_updated'`).Scan(&lastUpdated))
	require.Equal(t, "2025-07-01", lastUpdated)
}
