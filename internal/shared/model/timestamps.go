package model

import "time"

// Timestamps is embedded by value in every entity. GORM's automatic tracking
// is switched off; services call Touch on each mutation.
type Timestamps struct {
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

// Touch sets UpdatedAt to now, and CreatedAt too on first use. Values are
// truncated to the microsecond precision PostgreSQL keeps, so a freshly
// created entity renders exactly like it does after a reload.
func (t *Timestamps) Touch(now time.Time) {
	now = now.UTC().Truncate(time.Microsecond)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}
