package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/shop-bot/internal/domain/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserStorage interface {
	// EnsureUser возвращает пользователя по chat id, создавая его при первом обращении
	EnsureUser(ctx context.Context, tx *sql.Tx, tgID int64) (*models.User, error)
	// UpdateProfile кэширует данные покупателя из последнего заказа
	UpdateProfile(ctx context.Context, tx *sql.Tx, userID int64, name, phone, address string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserStorage {
	return &userRepository{db: db}
}

const userColumns = "id, tg_id, name, phone, address, created_at"

// EnsureUser: INSERT ... ON CONFLICT DO NOTHING не возвращает строку, если параллельный
// запрос успел создать пользователя раньше, тогда перечитываем существующую запись.
func (r *userRepository) EnsureUser(ctx context.Context, tx *sql.Tx, tgID int64) (*models.User, error) {
	row := tx.QueryRowContext(ctx,
		"INSERT INTO users (tg_id) VALUES ($1) ON CONFLICT (tg_id) DO NOTHING RETURNING "+userColumns,
		tgID,
	)
	user, err := scanUser(row)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	row = tx.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE tg_id = $1", tgID)
	user, err = scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, tx *sql.Tx, userID int64, name, phone, address string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE users SET name = $1, phone = $2, address = $3 WHERE id = $4",
		nullString(name), nullString(phone), nullString(address), userID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		user                 models.User
		name, phone, address sql.NullString
	)
	if err := row.Scan(&user.ID, &user.TgID, &name, &phone, &address, &user.CreatedAt); err != nil {
		return nil, err
	}
	user.Name, user.Phone, user.Address = name.String, phone.String, address.String
	return &user, nil
}
