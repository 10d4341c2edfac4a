package ledger

import (
	"task_rewards/internal/domain"

	"gorm.io/gorm"
)

// SeqUserID is the counter that mints human-facing user ids.
const SeqUserID = "userId"

// The userId counter starts at 2999 so the first registered user gets 3000.
const userIDSeed = 2999

func counterSeed(name string) int64 {
	if name == SeqUserID {
		return userIDSeed
	}
	return 0
}

// NextSequence atomically increments and returns the counter identified by
// name, creating it at its seed value if absent. The increment happens with
// a single UPDATE so concurrent callers get distinct, contiguous values.
// Callers do not roll the counter back when their surrounding operation
// fails; a skipped value is harmless.
func NextSequence(db *gorm.DB, name string) (int64, error) {
	var value int64
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Counter{}).
			Where("name = ?", name).
			Update("sequence_value", gorm.Expr("sequence_value + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// First caller for this sequence creates the row. A concurrent
			// creator may win the insert; fall back to the increment path.
			c := domain.Counter{Name: name, SequenceValue: counterSeed(name) + 1}
			if err := tx.Create(&c).Error; err == nil {
				value = c.SequenceValue
				return nil
			}
			res = tx.Model(&domain.Counter{}).
				Where("name = ?", name).
				Update("sequence_value", gorm.Expr("sequence_value + ?", 1))
			if res.Error != nil {
				return res.Error
			}
		}
		var c domain.Counter
		if err := tx.Where("name = ?", name).First(&c).Error; err != nil {
			return err
		}
		value = c.SequenceValue
		return nil
	})
	return value, err
}
