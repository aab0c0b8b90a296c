package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"storefront_back_end/internal/apperr"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

type RegisterInput struct {
	Name     string  `json:"name" binding:"required"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,number,min=10,max=11"`
	Password string  `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// UserUpdate porte les champs modifiables ; Role et IsLocked sont réservés aux admins.
type UserUpdate struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email" binding:"omitempty,email"`
	Phone    *string      `json:"phone" binding:"omitempty,number,min=10,max=11"`
	Password *string      `json:"password" binding:"omitnil,min=6"`
	Avatar   *string      `json:"avatar"`
	Address  *string      `json:"address"`
	Role     *models.Role `json:"role"`
	IsLocked *bool        `json:"is_locked"`
}

// normalizeContact vide les chaînes blanches et met l'email en minuscules.
func normalizeContact(email, phone *string) (*string, *string) {
	if email != nil {
		e := strings.ToLower(strings.TrimSpace(*email))
		email = &e
		if e == "" {
			email = nil
		}
	}
	if phone != nil {
		p := strings.TrimSpace(*phone)
		phone = &p
		if p == "" {
			phone = nil
		}
	}
	return email, phone
}

func checkContact(ctx context.Context, q sqlx.ExtContext, email, phone *string, excludeID int64) error {
	if email != nil {
		taken, err := database.ContactTaken(ctx, q, "email", *email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("email %s is already registered", *email)
		}
	}
	if phone != nil {
		taken, err := database.ContactTaken(ctx, q, "phone", *phone, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("phone %s is already registered", *phone)
		}
	}
	return nil
}

// Register crée un compte USER et renvoie son jeton.
func Register(ctx context.Context, store *database.Store, secret string, ttl time.Duration, in RegisterInput) (*models.User, string, error) {
	in.Email, in.Phone = normalizeContact(in.Email, in.Phone)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == nil && in.Phone == nil {
		return nil, "", apperr.Validation("email or phone is required")
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, "", err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hash,
		Name:     in.Name,
		Role:     models.RoleUser,
	}
	err = store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := checkContact(ctx, tx, user.Email, user.Phone, 0); err != nil {
			return err
		}
		return database.InsertUser(ctx, tx, user)
	})
	if err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateJWT(secret, ttl, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login vérifie les identifiants (email ou téléphone) et renvoie un jeton.
func Login(ctx context.Context, store *database.Store, secret string, ttl time.Duration, in LoginInput) (*models.User, string, error) {
	if in.Email == "" && in.Phone == "" {
		return nil, "", apperr.Validation("email or phone is required")
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, "", err
	}

	var (
		user *models.User
		err  error
	)
	if in.Email != "" {
		user, err = database.FindUserByEmail(ctx, store.DB(), strings.ToLower(strings.TrimSpace(in.Email)))
	} else {
		user, err = database.FindUserByPhone(ctx, store.DB(), strings.TrimSpace(in.Phone))
	}
	if errors.Is(err, database.ErrNotFound) {
		return nil, "", apperr.Unauthorized("incorrect credentials")
	}
	if err != nil {
		return nil, "", err
	}

	ok, err := utils.VerifyPassword(in.Password, user.Password)
	if err != nil || !ok {
		return nil, "", apperr.Unauthorized("incorrect credentials")
	}
	if user.IsLocked {
		return nil, "", apperr.Forbidden("this account is locked")
	}

	token, err := utils.GenerateJWT(secret, ttl, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func GetUser(ctx context.Context, q sqlx.ExtContext, id int64) (*models.User, error) {
	u, err := database.GetUser(ctx, q, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return u, err
}

// UpdateUser applique les champs fournis. asAdmin autorise le rôle et le verrouillage.
func UpdateUser(ctx context.Context, store *database.Store, id int64, in UserUpdate, asAdmin bool) (*models.User, error) {
	if !asAdmin && (in.Role != nil || in.IsLocked != nil) {
		return nil, apperr.Forbidden("only administrators can change role or lock state")
	}
	if in.Role != nil && *in.Role != models.RoleUser && *in.Role != models.RoleAdmin {
		return nil, apperr.Validation("role must be 1 (USER) or 2 (ADMIN)")
	}
	emailSet, phoneSet := in.Email != nil, in.Phone != nil
	in.Email, in.Phone = normalizeContact(in.Email, in.Phone)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, err
	}

	var user *models.User
	err := store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		if user, err = GetUser(ctx, tx, id); err != nil {
			return err
		}

		email, phone := user.Email, user.Phone
		if emailSet {
			email = in.Email
		}
		if phoneSet {
			phone = in.Phone
		}
		if email == nil && phone == nil {
			return apperr.Validation("email or phone is required")
		}
		if err := checkContact(ctx, tx, in.Email, in.Phone, id); err != nil {
			return err
		}
		user.Email, user.Phone = email, phone

		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return apperr.Validation("name must not be empty")
			}
			user.Name = strings.TrimSpace(*in.Name)
		}
		if in.Avatar != nil {
			user.Avatar = *in.Avatar
		}
		if in.Address != nil {
			user.Address = *in.Address
		}
		if in.Role != nil {
			user.Role = *in.Role
		}
		if in.IsLocked != nil {
			user.IsLocked = *in.IsLocked
		}
		if in.Password != nil {
			hash, err := utils.HashPassword(*in.Password)
			if err != nil {
				return err
			}
			changed := time.Now().UTC()
			user.Password, user.PasswordChangedAt = hash, &changed
		}
		return database.UpdateUser(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser refuse la suppression tant que l'utilisateur a des commandes.
func DeleteUser(ctx context.Context, store *database.Store, id int64) error {
	return store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := GetUser(ctx, tx, id); err != nil {
			return err
		}
		n, err := database.CountOrdersOfUser(ctx, tx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Validation("cannot delete user %d, it is referenced by %d order(s)", id, n)
		}
		return database.DeleteUser(ctx, tx, id)
	})
}
