package postgres

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"github.com/clinio/clinio-api/internal/model"
	apperrors "github.com/clinio/clinio-api/pkg/errors"
)

func (r *accountRepository) Create(ctx context.Context, account *model.Account, profile *model.DoctorProfile) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, storeErr(err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO accounts (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, account.Name, account.Email, account.PasswordHash, account.Role).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, apperrors.Conflict("email already registered", err)
		}
		return 0, storeErr(err)
	}

	if account.Role == model.RoleDoctor {
		specialty, details := "", ""
		if profile != nil {
			specialty, details = profile.Specialty, profile.Details
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO doctor_profiles (account_id, specialty, details)
			VALUES ($1, $2, $3)
		`, id, specialty, details)
		if err != nil {
			return 0, storeErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr(err)
	}
	return id, nil
}

func (r *accountRepository) Get(ctx context.Context, id int64) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT id, name, email, password_hash, role, created_at
		FROM accounts
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, notFoundOr(err, "account")
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT id, name, email, password_hash, role, created_at
		FROM accounts
		WHERE email = $1
	`, email)
	if err != nil {
		return nil, notFoundOr(err, "account")
	}
	return &account, nil
}

func (r *accountRepository) ListIDsByRole(ctx context.Context, role model.Role) ([]int64, error) {
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT id FROM accounts WHERE role = $1 ORDER BY id
	`, role)
	if err != nil {
		return nil, storeErr(err)
	}
	return ids, nil
}

func (r *accountRepository) GetDoctorProfile(ctx context.Context, doctorID int64) (*model.DoctorProfile, error) {
	var profile model.DoctorProfile
	err := r.db.GetContext(ctx, &profile, `
		SELECT account_id, specialty, details
		FROM doctor_profiles
		WHERE account_id = $1
	`, doctorID)
	if err != nil {
		return nil, notFoundOr(err, "doctor profile")
	}
	return &profile, nil
}
