package core

import "time"

// Note is the central entity of the domain.
// Timestamps are Unix epoch milliseconds, matching the persisted JSON layout.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Created returns the creation time.
func (n Note) Created() time.Time {
	return time.UnixMilli(n.CreatedAt)
}

// Updated returns the last modification time.
func (n Note) Updated() time.Time {
	return time.UnixMilli(n.UpdatedAt)
}

// ISOTimeFormat is the ISO-8601 layout used for exported timestamps.
const ISOTimeFormat = "2006-01-02T15:04:05.000Z"

// RecordHeaders are the column names of an exported sheet, in order.
var RecordHeaders = []string{"#", "Id", "Title", "Content", "CreatedAt", "UpdatedAt"}

// Record is one flat row of an export.
type Record struct {
	Row       int    `json:"#"`
	ID        string `json:"Id"`
	Title     string `json:"Title"`
	Content   string `json:"Content"`
	CreatedAt string `json:"CreatedAt"`
	UpdatedAt string `json:"UpdatedAt"`
}

// Values returns the record cells in RecordHeaders order.
func (r Record) Values() []any {
	return []any{r.Row, r.ID, r.Title, r.Content, r.CreatedAt, r.UpdatedAt}
}

func newRecord(row int, n Note) Record {
	return Record{
		Row:       row,
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: formatISO(n.CreatedAt),
		UpdatedAt: formatISO(n.UpdatedAt),
	}
}

func formatISO(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(ISOTimeFormat)
}
