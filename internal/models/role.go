package models

type Role struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	Name        string `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:varchar(255)" json:"description"`

	// Relations
	Users []User `gorm:"foreignKey:RoleID" json:"-"`
}
