package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant represents an isolated organization in the system.
type Tenant struct {
	ID          uint64         `json:"id" gorm:"primaryKey;autoIncrement;comment:租户ID"`
	Code        string         `json:"code" gorm:"size:32;not null;uniqueIndex:uk_tenant_code;comment:租户编码"`
	Name        string         `json:"name" gorm:"size:64;not null;comment:租户名称"`
	Description string         `json:"description" gorm:"size:255;comment:描述"`
	Status      int            `json:"status" gorm:"index:idx_tenants_status;comment:状态 1启用 0禁用"`
	CreatedAt   int64          `json:"created_at" gorm:"autoCreateTime:milli;comment:创建时间"`
	UpdatedAt   int64          `json:"updated_at" gorm:"autoUpdateTime:milli;comment:更新时间"`
	CreatedBy   uint64         `json:"created_by" gorm:"default:0;comment:创建人"`
	UpdatedBy   uint64         `json:"updated_by" gorm:"default:0;comment:更新人"`
	DeletedBy   uint64         `json:"-" gorm:"default:0;comment:删除人"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index;comment:软删除时间"`
}

// TenantList contains a list of tenants and pagination info.
type TenantList struct {
	TotalCount int64     `json:"totalCount"`
	Items      []*Tenant `json:"items"`
}

// TableName returns the table name for GORM.
func (t *Tenant) TableName() string {
	return "tenants"
}

// BeforeCreate sets the CreatedAt and UpdatedAt fields.
func (t *Tenant) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now().UnixMilli()
	t.CreatedAt = now
	t.UpdatedAt = now
	return
}

// BeforeUpdate sets the UpdatedAt field.
func (t *Tenant) BeforeUpdate(tx *gorm.DB) (err error) {
	t.UpdatedAt = time.Now().UnixMilli()
	return
}
