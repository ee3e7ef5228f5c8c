package tenant

import "gorm.io/gorm"

// ForTenant scopes a query to one app's rows. Every tenant-owned table
// carries an app_id column.
func ForTenant(appID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("app_id = ?", appID)
	}
}
