package audit

import (
	"time"

	"gorm.io/gorm"
)

// Entry records a single field mutation. One row per changed field.
type Entry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Table     string    `gorm:"column:table_name;size:64;index:idx_audit_record" json:"table_name"`
	RecordID  string    `gorm:"column:record_id;size:64;index:idx_audit_record" json:"record_id"`
	Field     string    `gorm:"size:64" json:"field"`
	OldValue  string    `gorm:"size:255" json:"old_value"`
	NewValue  string    `gorm:"size:255" json:"new_value"`
	Actor     string    `gorm:"size:64" json:"actor"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

// TableName maps the model to its table.
func (Entry) TableName() string {
	return "audit_entries"
}

// Recorder appends audit entries on the connection it is bound to. Bind it
// to a transaction handle so the audit row commits or rolls back with the
// mutation it describes.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder creates a recorder bound to db.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// WithTx returns a recorder bound to the given transaction.
func (r *Recorder) WithTx(tx *gorm.DB) *Recorder {
	return &Recorder{db: tx}
}

// Record appends one entry for a changed field.
func (r *Recorder) Record(tableName, recordID, field, oldValue, newValue, actor string) error {
	entry := Entry{
		Table:     tableName,
		RecordID:  recordID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	}
	return r.db.Create(&entry).Error
}

// ForRecord returns all entries for one record, oldest first.
func (r *Recorder) ForRecord(tableName, recordID string) ([]Entry, error) {
	var entries []Entry
	err := r.db.
		Where("table_name = ? AND record_id = ?", tableName, recordID).
		Order("id asc").
		Find(&entries).Error
	return entries, err
}
