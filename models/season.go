package models

// Season groups tournaments for repeat-winner windows, loss tracking and the solo tax pool.
type Season struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	IsActive bool   `json:"is_active" gorm:"default:false;index"`

	Timestamps
}
