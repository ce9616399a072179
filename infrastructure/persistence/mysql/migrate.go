package mysql

import (
	"marketbill/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the bill tables. Development use only;
// production schemas are managed by migration tooling.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&po.BillPO{},
		&po.BillItemPO{},
	)
}
