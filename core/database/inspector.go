package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // NULL default is possible
	Extra   string
}

// GetTableColumns retrieves the column definitions for a given table.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo
	if db.Dialector.Name() == "sqlite" {
		// SQLite uses PRAGMA table_info
		type sqliteColumn struct {
			Cid        int
			Name       string
			Type       string
			Notnull    int
			DefaultVal *string
			Pk         int
		}
		var sqliteCols []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			columns = append(columns, ColumnInfo{
				Field: strings.ToLower(col.Name),
				Type:  strings.ToLower(col.Type),
			})
		}
		return columns, nil
	}

	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// TableDrift describes the difference between a deployed table and the
// columns the application expects.
type TableDrift struct {
	Table          string
	Missing        bool
	MissingColumns []string
	ExtraColumns   []string
}

// VerifyTables compares each expected table against the live schema and
// returns one drift entry per table that does not match. Expected maps table
// name to the set of column names the models declare.
func VerifyTables(db *gorm.DB, expected map[string][]string) ([]TableDrift, error) {
	var drifts []TableDrift

	for table, wantCols := range expected {
		columns, err := GetTableColumns(db, table)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			drifts = append(drifts, TableDrift{Table: table, Missing: true})
			continue
		}

		have := make(map[string]bool, len(columns))
		for _, col := range columns {
			have[col.Field] = true
		}
		want := make(map[string]bool, len(wantCols))

		drift := TableDrift{Table: table}
		for _, col := range wantCols {
			name := strings.ToLower(col)
			want[name] = true
			if !have[name] {
				drift.MissingColumns = append(drift.MissingColumns, name)
			}
		}
		for _, col := range columns {
			if !want[col.Field] {
				drift.ExtraColumns = append(drift.ExtraColumns, col.Field)
			}
		}

		if len(drift.MissingColumns) > 0 || len(drift.ExtraColumns) > 0 {
			drifts = append(drifts, drift)
		}
	}

	return drifts, nil
}
