package repository

import (
	"errors"

	repo "shop/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgresのエラーコードをrepositoryのエラーに寄せる。
// 23505: unique_violation / 40001: serialization_failure / 40P01: deadlock_detected
func translatePGError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "40001", "40P01":
			return repo.ErrConflict
		}
	}
	return err
}
