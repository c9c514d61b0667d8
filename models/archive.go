package models

import "time"

// Archive представляет снимок доски, сохраненный в объектном хранилище.
type Archive struct {
	ID           int64     `db:"id" json:"id"`
	MemberID     int64     `db:"member_id" json:"member_id"`
	ObjectKey    string    `db:"object_key" json:"object_key"`
	MessageCount int       `db:"message_count" json:"message_count"`
	SizeBytes    int64     `db:"size_bytes" json:"size_bytes"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ArchiveSnapshot - содержимое файла архива.
type ArchiveSnapshot struct {
	CreatedBy MemberResponse `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	Messages  []Message      `json:"messages"`
}
