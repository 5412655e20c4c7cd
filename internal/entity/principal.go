package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Admin is the platform-level principal. It carries no store affiliation.
type Admin struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

// StoreOwner links a User to the single store it owns.
type StoreOwner struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	StoreID uuid.UUID `gorm:"type:uuid;not null;index"`
	Store   Store     `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

// StoreStaff links a User to a store with an explicit permission set.
type StoreStaff struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	StoreID uuid.UUID `gorm:"type:uuid;not null;index"`
	Store   Store     `gorm:"constraint:OnDelete:CASCADE"`

	// Permissions is a JSON array of permission names, e.g.
	// ["products.manage","orders.manage"].
	Permissions datatypes.JSON

	CreatedAt time.Time
}

func (s *StoreStaff) PermissionList() []string {
	if len(s.Permissions) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(s.Permissions, &list); err != nil {
		return nil
	}
	return list
}

// Principal is the guard-neutral view of a role record, used by the
// authentication flow so every step dispatches on Guard instead of
// branching on three concrete types.
type Principal struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Guard       Guard
	StoreID     *uuid.UUID
	Permissions []string
}

func (a *Admin) Principal() *Principal {
	return &Principal{ID: a.ID, UserID: a.UserID, Guard: GuardAdmin}
}

func (o *StoreOwner) Principal() *Principal {
	storeID := o.StoreID
	return &Principal{ID: o.ID, UserID: o.UserID, Guard: GuardStoreOwner, StoreID: &storeID}
}

func (s *StoreStaff) Principal() *Principal {
	storeID := s.StoreID
	return &Principal{
		ID:          s.ID,
		UserID:      s.UserID,
		Guard:       GuardStoreStaff,
		StoreID:     &storeID,
		Permissions: s.PermissionList(),
	}
}

func (p *Principal) HasPermission(name string) bool {
	for _, permission := range p.Permissions {
		if permission == name {
			return true
		}
	}
	return false
}
