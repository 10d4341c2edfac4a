package domain

// Counter Model — keyed sequence, incremented atomically in the store
type Counter struct {
	Name          string `gorm:"primaryKey" json:"name"` // Sequence name, e.g. "userId"
	SequenceValue int64  `gorm:"not null" json:"sequenceValue"`
}
