package entity

import "github.com/bitcoinblocks/backend/pkg/enum"

type GlobalRole string

var (
	RoleSuperAdmin = enum.New(GlobalRole("super_admin"))
	RoleUser       = enum.New(GlobalRole("user"))
)

var GlobalAdminRoles = []GlobalRole{RoleSuperAdmin}

type User struct {
	Base

	// Fid is the Farcaster identifier of the user.
	Fid int64 `gorm:"unique"`

	Username    string
	DisplayName string
	AvatarURL   string
	Role        GlobalRole
}
