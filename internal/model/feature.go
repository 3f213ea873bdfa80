package model

import (
	"time"

	"gorm.io/gorm"
)

// Feature represents a single grantable permission, identified by its code
// (e.g. USER_VIEW). A nil TenantID marks a global feature.
type Feature struct {
	ID          uint64         `json:"id" gorm:"primaryKey;autoIncrement;comment:功能ID"`
	Code        string         `json:"code" gorm:"size:64;not null;uniqueIndex:uk_feature_code;comment:功能编码"`
	Name        string         `json:"name" gorm:"size:64;not null;comment:功能名称"`
	Category    string         `json:"category" gorm:"size:64;index:idx_features_category;comment:功能分类"`
	Description string         `json:"description" gorm:"size:255;comment:描述"`
	TenantID    *uint64        `json:"tenant_id" gorm:"index:idx_features_tenant_id;comment:所属租户ID(空为全局)"`
	Status      int            `json:"status" gorm:"index:idx_features_status;comment:状态 1启用 0禁用"`
	CreatedAt   int64          `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间"`
	UpdatedAt   int64          `json:"updated_at" gorm:"autoUpdateTime:milli;comment:更新时间"`
	CreatedBy   uint64         `json:"created_by" gorm:"default:0;comment:创建人"`
	UpdatedBy   uint64         `json:"updated_by" gorm:"default:0;comment:更新人"`
	DeletedBy   uint64         `json:"-" gorm:"default:0;comment:删除人"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index;comment:软删除时间"`
}

// FeatureList contains a list of features and pagination info.
type FeatureList struct {
	TotalCount int64      `json:"totalCount"`
	Items      []*Feature `json:"items"`
}

// TableName returns the table name for GORM.
func (f *Feature) TableName() string {
	return "features"
}

// BeforeCreate sets the CreatedAt and UpdatedAt fields.
func (f *Feature) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now().UnixMilli()
	f.CreatedAt = now
	f.UpdatedAt = now
	return
}

// BeforeUpdate sets the UpdatedAt field.
func (f *Feature) BeforeUpdate(tx *gorm.DB) (err error) {
	f.UpdatedAt = time.Now().UnixMilli()
	return
}

// RoleFeature grants a feature to a role.
type RoleFeature struct {
	ID        uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	RoleID    uint64         `json:"role_id" gorm:"uniqueIndex:uk_role_feature;index:idx_role_features_role_id;not null;comment:角色ID"`
	FeatureID uint64         `json:"feature_id" gorm:"uniqueIndex:uk_role_feature;index:idx_role_features_feature_id;not null;comment:功能ID"`
	GrantedBy uint64         `json:"granted_by" gorm:"default:0;comment:授权人"`
	CreatedAt int64          `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"uniqueIndex:uk_role_feature;comment:软删除时间"`
}

// TableName returns the table name for GORM.
func (rf *RoleFeature) TableName() string {
	return "role_features"
}

// BeforeCreate sets the CreatedAt field.
func (rf *RoleFeature) BeforeCreate(_ *gorm.DB) (err error) {
	rf.CreatedAt = time.Now().UnixMilli()
	return
}

// MenuFeature declares that a feature belongs to a menu. The features a user
// actually sees on a menu are the intersection of this set with the features
// granted through the user's roles.
type MenuFeature struct {
	ID        uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	MenuID    uint64         `json:"menu_id" gorm:"uniqueIndex:uk_menu_feature;index:idx_menu_features_menu_id;not null;comment:菜单ID"`
	FeatureID uint64         `json:"feature_id" gorm:"uniqueIndex:uk_menu_feature;index:idx_menu_features_feature_id;not null;comment:功能ID"`
	GrantedBy uint64         `json:"granted_by" gorm:"default:0;comment:授权人"`
	CreatedAt int64          `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"uniqueIndex:uk_menu_feature;comment:软删除时间"`
}

// TableName returns the table name for GORM.
func (mf *MenuFeature) TableName() string {
	return "menu_features"
}

// BeforeCreate sets the CreatedAt field.
func (mf *MenuFeature) BeforeCreate(_ *gorm.DB) (err error) {
	mf.CreatedAt = time.Now().UnixMilli()
	return
}
