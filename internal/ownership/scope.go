package ownership

import "gorm.io/gorm"

// Owned narrows a query to rows belonging to one user. Admin reads skip it.
func Owned(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
