package model

import (
	"time"

	"gorm.io/gorm"
)

// Menu hierarchy levels. The hierarchy is exactly two levels deep: groups
// contain pages, pages contain nothing.
const (
	MenuLevelGroup = 1
	MenuLevelPage  = 2
)

// Menu represents a navigation entry. Level 1 menus are groups without a
// parent; level 2 menus must name a level 1 parent. A nil TenantID marks a
// global menu.
type Menu struct {
	ID        uint64         `json:"id" gorm:"primaryKey;autoIncrement;comment:菜单ID"`
	Name      string         `json:"name" gorm:"size:64;not null;comment:菜单名称"`
	Path      string         `json:"path" gorm:"size:255;comment:前端路由"`
	Icon      string         `json:"icon" gorm:"size:64;comment:图标"`
	SortOrder int            `json:"sort_order" gorm:"default:0;index:idx_menus_sort_order;comment:排序号"`
	Level     int            `json:"level" gorm:"not null;comment:层级 1分组 2页面"`
	ParentID  *uint64        `json:"parent_id" gorm:"index:idx_menus_parent_id;comment:父菜单ID"`
	TenantID  *uint64        `json:"tenant_id" gorm:"index:idx_menus_tenant_id;comment:所属租户ID(空为全局)"`
	Status    int            `json:"status" gorm:"index:idx_menus_status;comment:状态 1启用 0禁用"`
	CreatedAt int64          `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间"`
	UpdatedAt int64          `json:"updated_at" gorm:"autoUpdateTime:milli;comment:更新时间"`
	CreatedBy uint64         `json:"created_by" gorm:"default:0;comment:创建人"`
	UpdatedBy uint64         `json:"updated_by" gorm:"default:0;comment:更新人"`
	DeletedBy uint64         `json:"-" gorm:"default:0;comment:删除人"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index;comment:软删除时间"`
}

// MenuList contains a list of menus and pagination info.
type MenuList struct {
	TotalCount int64   `json:"totalCount"`
	Items      []*Menu `json:"items"`
}

// TableName returns the table name for GORM.
func (m *Menu) TableName() string {
	return "menus"
}

// BeforeCreate sets the CreatedAt and UpdatedAt fields.
func (m *Menu) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now().UnixMilli()
	m.CreatedAt = now
	m.UpdatedAt = now
	return
}

// BeforeUpdate sets the UpdatedAt field.
func (m *Menu) BeforeUpdate(tx *gorm.DB) (err error) {
	m.UpdatedAt = time.Now().UnixMilli()
	return
}

// RoleMenu grants a menu to a role.
type RoleMenu struct {
	ID        uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	RoleID    uint64         `json:"role_id" gorm:"uniqueIndex:uk_role_menu;index:idx_role_menus_role_id;not null;comment:角色ID"`
	MenuID    uint64         `json:"menu_id" gorm:"uniqueIndex:uk_role_menu;index:idx_role_menus_menu_id;not null;comment:菜单ID"`
	GrantedBy uint64         `json:"granted_by" gorm:"default:0;comment:授权人"`
	CreatedAt int64          `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"uniqueIndex:uk_role_menu;comment:软删除时间"`
}

// TableName returns the table name for GORM.
func (rm *RoleMenu) TableName() string {
	return "role_menus"
}

// BeforeCreate sets the CreatedAt field.
func (rm *RoleMenu) BeforeCreate(_ *gorm.DB) (err error) {
	rm.CreatedAt = time.Now().UnixMilli()
	return
}
