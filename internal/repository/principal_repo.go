package repository

import (
	"context"
	"encoding/json"
	"errors"

	"storehub/internal/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PrincipalRepository is the single lookup table behind the Guard enum: the
// same operations work against whichever principal table the guard names,
// so callers never branch on admin/store-owner/store-staff themselves.
type PrincipalRepository interface {
	FindByEmail(ctx context.Context, guard entity.Guard, email string) (*entity.Principal, error)
	FindByID(ctx context.Context, guard entity.Guard, id uuid.UUID) (*entity.Principal, error)
	FindByUserID(ctx context.Context, guard entity.Guard, userID uuid.UUID) (*entity.Principal, error)
	List(ctx context.Context, guard entity.Guard, limit, offset int) ([]entity.Principal, error)
	CreateAdmin(ctx context.Context, userID uuid.UUID) (*entity.Principal, error)
	CreateStoreOwner(ctx context.Context, userID, storeID uuid.UUID) (*entity.Principal, error)
	CreateStoreStaff(ctx context.Context, userID, storeID uuid.UUID, permissions []string) (*entity.Principal, error)
	UpdateStaffPermissions(ctx context.Context, id uuid.UUID, permissions datatypes.JSON) error
	Delete(ctx context.Context, guard entity.Guard, id uuid.UUID) error
}

type principalRepository struct {
	db *gorm.DB
}

func NewPrincipalRepository(db *gorm.DB) PrincipalRepository {
	return &principalRepository{db: db}
}

func (r *principalRepository) FindByEmail(ctx context.Context, guard entity.Guard, email string) (*entity.Principal, error) {
	switch guard {
	case entity.GuardAdmin:
		var admin entity.Admin
		err := r.db.WithContext(ctx).
			Joins("JOIN users ON users.id = admins.user_id").
			Where("users.email = ? AND users.is_active = true", email).
			First(&admin).Error
		return adminResult(&admin, err)
	case entity.GuardStoreOwner:
		var owner entity.StoreOwner
		err := r.db.WithContext(ctx).
			Joins("JOIN users ON users.id = store_owners.user_id").
			Where("users.email = ? AND users.is_active = true", email).
			First(&owner).Error
		return ownerResult(&owner, err)
	case entity.GuardStoreStaff:
		var staff entity.StoreStaff
		err := r.db.WithContext(ctx).
			Joins("JOIN users ON users.id = store_staffs.user_id").
			Where("users.email = ? AND users.is_active = true", email).
			First(&staff).Error
		return staffResult(&staff, err)
	}
	return nil, entity.ErrUnknownGuard
}

func (r *principalRepository) FindByID(ctx context.Context, guard entity.Guard, id uuid.UUID) (*entity.Principal, error) {
	switch guard {
	case entity.GuardAdmin:
		var admin entity.Admin
		err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error
		return adminResult(&admin, err)
	case entity.GuardStoreOwner:
		var owner entity.StoreOwner
		err := r.db.WithContext(ctx).Where("id = ?", id).First(&owner).Error
		return ownerResult(&owner, err)
	case entity.GuardStoreStaff:
		var staff entity.StoreStaff
		err := r.db.WithContext(ctx).Where("id = ?", id).First(&staff).Error
		return staffResult(&staff, err)
	}
	return nil, entity.ErrUnknownGuard
}

func (r *principalRepository) FindByUserID(ctx context.Context, guard entity.Guard, userID uuid.UUID) (*entity.Principal, error) {
	switch guard {
	case entity.GuardAdmin:
		var admin entity.Admin
		err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&admin).Error
		return adminResult(&admin, err)
	case entity.GuardStoreOwner:
		var owner entity.StoreOwner
		err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&owner).Error
		return ownerResult(&owner, err)
	case entity.GuardStoreStaff:
		var staff entity.StoreStaff
		err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&staff).Error
		return staffResult(&staff, err)
	}
	return nil, entity.ErrUnknownGuard
}

func (r *principalRepository) List(ctx context.Context, guard entity.Guard, limit, offset int) ([]entity.Principal, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var principals []entity.Principal
	switch guard {
	case entity.GuardAdmin:
		var admins []entity.Admin
		if err := query.Find(&admins).Error; err != nil {
			return nil, err
		}
		for i := range admins {
			principals = append(principals, *admins[i].Principal())
		}
	case entity.GuardStoreOwner:
		var owners []entity.StoreOwner
		if err := query.Find(&owners).Error; err != nil {
			return nil, err
		}
		for i := range owners {
			principals = append(principals, *owners[i].Principal())
		}
	case entity.GuardStoreStaff:
		var staff []entity.StoreStaff
		if err := query.Find(&staff).Error; err != nil {
			return nil, err
		}
		for i := range staff {
			principals = append(principals, *staff[i].Principal())
		}
	default:
		return nil, entity.ErrUnknownGuard
	}
	return principals, nil
}

func (r *principalRepository) CreateAdmin(ctx context.Context, userID uuid.UUID) (*entity.Principal, error) {
	admin := &entity.Admin{UserID: userID}
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, err
	}
	return admin.Principal(), nil
}

func (r *principalRepository) CreateStoreOwner(ctx context.Context, userID, storeID uuid.UUID) (*entity.Principal, error) {
	owner := &entity.StoreOwner{UserID: userID, StoreID: storeID}
	if err := r.db.WithContext(ctx).Create(owner).Error; err != nil {
		return nil, err
	}
	return owner.Principal(), nil
}

func (r *principalRepository) CreateStoreStaff(ctx context.Context, userID, storeID uuid.UUID, permissions []string) (*entity.Principal, error) {
	payload, err := permissionsJSON(permissions)
	if err != nil {
		return nil, err
	}
	staff := &entity.StoreStaff{UserID: userID, StoreID: storeID, Permissions: payload}
	if err := r.db.WithContext(ctx).Create(staff).Error; err != nil {
		return nil, err
	}
	return staff.Principal(), nil
}

func (r *principalRepository) UpdateStaffPermissions(ctx context.Context, id uuid.UUID, permissions datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&entity.StoreStaff{}).
		Where("id = ?", id).
		Update("permissions", permissions).
		Error
}

// Delete removes the role assignment only. The underlying User row is never
// touched here.
func (r *principalRepository) Delete(ctx context.Context, guard entity.Guard, id uuid.UUID) error {
	switch guard {
	case entity.GuardAdmin:
		return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Admin{}).Error
	case entity.GuardStoreOwner:
		return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.StoreOwner{}).Error
	case entity.GuardStoreStaff:
		return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.StoreStaff{}).Error
	}
	return entity.ErrUnknownGuard
}

func adminResult(admin *entity.Admin, err error) (*entity.Principal, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return admin.Principal(), nil
}

func ownerResult(owner *entity.StoreOwner, err error) (*entity.Principal, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return owner.Principal(), nil
}

func staffResult(staff *entity.StoreStaff, err error) (*entity.Principal, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return staff.Principal(), nil
}

func permissionsJSON(permissions []string) (datatypes.JSON, error) {
	if permissions == nil {
		permissions = []string{}
	}
	payload, err := json.Marshal(permissions)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(payload), nil
}
