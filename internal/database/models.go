package database

import (
	"gorm.io/gorm"
)

// User is the single administrator account. It is seeded at first startup
// and never mutated through the HTTP surface.
type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;size:64"`
	PasswordHash string `gorm:"size:255"`
}

// Item is one display entry: a label, the text encoded into its QR code,
// and the public path of its uploaded icon.
type Item struct {
	gorm.Model
	Label     string `gorm:"size:255"`
	QRText    string `gorm:"size:1024"`
	ImagePath string `gorm:"size:512"`
}

// RouteSet is a named public display: Route is the lookup key used by
// /r/{route}, Rows and Cols describe the grid, Timeout is the per-route
// inactivity timeout in milliseconds, BackgroundPath is optional.
type RouteSet struct {
	gorm.Model
	Route          string `gorm:"uniqueIndex;size:64"`
	Title          string `gorm:"size:255"`
	Rows           int
	Cols           int
	Timeout        int
	BackgroundPath string `gorm:"size:512"`
}

// RouteItem is one ordered slot of a route. The full set for a route is
// rewritten on every assignment submit, so rows are hard-deleted (no
// gorm.Model soft delete) and Position is the 1-based submit order.
type RouteItem struct {
	ID         uint `gorm:"primarykey"`
	RouteSetID uint `gorm:"index"`
	ItemID     uint `gorm:"index"`
	Position   int
}
