package service

import (
	"context"
	"strings"

	"storehub/internal/entity"
	"storehub/internal/repository"
	"storehub/internal/utils"

	"github.com/google/uuid"
)

// AdminService provisions and revokes principals. Revoking a role deletes
// only the principal row; the underlying User stays.
type AdminService struct {
	users        repository.UserRepository
	principals   repository.PrincipalRepository
	stores       repository.StoreRepository
	passwordHash PasswordHasher
}

func NewAdminService(
	users repository.UserRepository,
	principals repository.PrincipalRepository,
	stores repository.StoreRepository,
	passwordHash PasswordHasher,
) *AdminService {
	return &AdminService{
		users:        users,
		principals:   principals,
		stores:       stores,
		passwordHash: passwordHash,
	}
}

type ProvisionInput struct {
	Email       string
	Name        string
	Password    string
	Phone       *string
	StoreID     *uuid.UUID
	Permissions []string
}

// ProvisionPrincipal assigns a role to an existing user, or creates the user
// first when the email is unknown.
func (s *AdminService) ProvisionPrincipal(ctx context.Context, guard entity.Guard, input ProvisionInput) (*entity.Principal, error) {
	if !guard.Valid() {
		return nil, entity.ErrUnknownGuard
	}
	email := utils.NormalizeEmail(input.Email)
	if email == "" {
		return nil, ErrInvalidInput
	}

	var storeID uuid.UUID
	if guard == entity.GuardStoreOwner || guard == entity.GuardStoreStaff {
		if input.StoreID == nil {
			return nil, ErrStoreRequired
		}
		store, err := s.stores.FindByID(ctx, *input.StoreID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, ErrStoreNotFound
		}
		storeID = store.ID
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if strings.TrimSpace(input.Password) == "" {
			return nil, ErrInvalidInput
		}
		hash, err := s.passwordHash.Hash(input.Password)
		if err != nil {
			return nil, err
		}
		user = &entity.User{
			Email:        email,
			Name:         strings.TrimSpace(input.Name),
			PasswordHash: &hash,
			Phone:        input.Phone,
			IsActive:     true,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	existing, err := s.principals.FindByUserID(ctx, guard, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPrincipalExists
	}

	switch guard {
	case entity.GuardAdmin:
		return s.principals.CreateAdmin(ctx, user.ID)
	case entity.GuardStoreOwner:
		return s.principals.CreateStoreOwner(ctx, user.ID, storeID)
	default:
		return s.principals.CreateStoreStaff(ctx, user.ID, storeID, input.Permissions)
	}
}

func (s *AdminService) RevokePrincipal(ctx context.Context, guard entity.Guard, id uuid.UUID) error {
	principal, err := s.principals.FindByID(ctx, guard, id)
	if err != nil {
		return err
	}
	if principal == nil {
		return ErrPrincipalNotFound
	}
	return s.principals.Delete(ctx, guard, id)
}

func (s *AdminService) ListPrincipals(ctx context.Context, guard entity.Guard, limit, offset int) ([]entity.Principal, error) {
	return s.principals.List(ctx, guard, limit, offset)
}
