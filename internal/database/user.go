package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/DanialAhmed94/festival-rumour/internal/usecase"
)

type User struct {
	// UID is the Firebase auth uid; it is the key chat clients address
	// each other by, so it doubles as the primary key.
	UID       string                      `gorm:"column:uid;primaryKey;type:varchar(128)"`
	Name      string                      `gorm:"column:name;type:varchar(255)"`
	AppID     string                      `gorm:"column:app_id;type:varchar(255);index"`
	FCMToken  string                      `gorm:"column:fcm_token;type:text"`
	FCMTokens datatypes.JSONSlice[string] `gorm:"column:fcm_tokens;type:jsonb"`
	CreatedAt time.Time                   `gorm:"column:created_at"`
	UpdatedAt time.Time                   `gorm:"column:updated_at"`
	DeletedAt *gorm.DeletedAt             `gorm:"column:deleted_at"`
}

func (User) TableName() string {
	return "users"
}

func (s *service) GetUserByUID(ctx context.Context, uid string) (usecase.User, error) {
	var u User

	err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecase.User{}, usecase.ErrUserNotFound
	}
	if err != nil {
		return usecase.User{}, err
	}

	return u.ConvertToUsecase(), nil
}

// RemoveFCMToken strips a dead token wherever it appears: the dedicated
// column and the jsonb token list. Returns the number of touched rows.
func (s *service) RemoveFCMToken(ctx context.Context, token string) (int64, error) {
	var affected int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&User{}).
			Where("fcm_token = ?", token).
			Update("fcm_token", "")
		if res.Error != nil {
			return res.Error
		}
		affected += res.RowsAffected

		// jsonb '-' removes every array element equal to the operand
		res = tx.Exec(
			`UPDATE users SET fcm_tokens = fcm_tokens - ?::text
			 WHERE fcm_tokens @> to_jsonb(?::text) AND deleted_at IS NULL`,
			token, token,
		)
		if res.Error != nil {
			return res.Error
		}
		affected += res.RowsAffected
		return nil
	})

	return affected, err
}

// Convert core model to Usecase
func (u User) ConvertToUsecase() usecase.User {
	var d *time.Time

	if u.DeletedAt != nil {
		d = &u.DeletedAt.Time
	}

	return usecase.User{
		UID:       u.UID,
		Name:      u.Name,
		AppID:     u.AppID,
		FCMToken:  u.FCMToken,
		FCMTokens: u.FCMTokens,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeleteAt:  d,
	}
}
