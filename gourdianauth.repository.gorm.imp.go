// File: gourdianauth.repository.gorm.imp.go

package gourdianauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// RefreshTokenRecord represents a stored refresh token in the database
type RefreshTokenRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	TokenHash string    `gorm:"uniqueIndex:idx_refresh_token_hash;type:varchar(64);not null"`
	SubjectID string    `gorm:"index:idx_refresh_subject;type:varchar(255);not null"`
	ExpiresAt time.Time `gorm:"index:idx_refresh_expires_at;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for RefreshTokenRecord
func (RefreshTokenRecord) TableName() string {
	return "refresh_tokens"
}

// GormRefreshTokenRepository is a GORM-backed SQL implementation of
// RefreshTokenRepository.
type GormRefreshTokenRepository struct {
	db *gorm.DB
}

// NewGormRefreshTokenRepository creates a new GORM-based refresh token repository
func NewGormRefreshTokenRepository(db *gorm.DB) (*GormRefreshTokenRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}

	// Test the connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Auto-migrate tables
	if err := db.AutoMigrate(&RefreshTokenRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return &GormRefreshTokenRepository{
		db: db,
	}, nil
}

// withTransaction executes a function within a database transaction
func (r *GormRefreshTokenRepository) withTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SaveRefreshToken records a refresh token for the given subject by storing its hash
func (r *GormRefreshTokenRepository) SaveRefreshToken(ctx context.Context, subjectID, token string, ttl time.Duration) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if subjectID == "" {
		return fmt.Errorf("subject ID cannot be empty")
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	tokenHash := hashToken(token)
	model := RefreshTokenRecord{
		TokenHash: tokenHash,
		SubjectID: subjectID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	return r.withTransaction(ctx, func(tx *gorm.DB) error {
		result := tx.Create(&model)
		if result.Error != nil {
			// The random token value collided with an earlier entry; refresh it
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				updateResult := tx.Model(&RefreshTokenRecord{}).
					Where("token_hash = ?", tokenHash).
					Updates(map[string]interface{}{
						"subject_id": subjectID,
						"expires_at": model.ExpiresAt,
					})

				if updateResult.Error != nil {
					return fmt.Errorf("failed to update refresh token: %w", updateResult.Error)
				}

				return nil
			}
			return fmt.Errorf("failed to create refresh token: %w", result.Error)
		}

		return nil
	})
}

// LookupRefreshToken returns the subject a live refresh token belongs to
func (r *GormRefreshTokenRepository) LookupRefreshToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token cannot be empty")
	}

	tokenHash := hashToken(token)

	var model RefreshTokenRecord
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", tokenHash, time.Now()).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRefreshTokenNotFound
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	return model.SubjectID, nil
}

// RevokeRefreshToken removes a refresh token by its hash
func (r *GormRefreshTokenRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	tokenHash := hashToken(token)

	return r.withTransaction(ctx, func(tx *gorm.DB) error {
		result := tx.Where("token_hash = ?", tokenHash).Delete(&RefreshTokenRecord{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete refresh token: %w", result.Error)
		}
		return nil
	})
}

// CleanupExpiredRefreshTokens removes expired refresh tokens from the database
func (r *GormRefreshTokenRepository) CleanupExpiredRefreshTokens(ctx context.Context) error {
	return r.withTransaction(ctx, func(tx *gorm.DB) error {
		result := tx.Where("expires_at <= ?", time.Now()).Delete(&RefreshTokenRecord{})
		if result.Error != nil {
			return fmt.Errorf("failed to cleanup expired refresh tokens: %w", result.Error)
		}
		return nil
	})
}

// Stats returns statistics about the repository.
// Useful for monitoring and debugging.
func (r *GormRefreshTokenRepository) Stats(ctx context.Context) (map[string]interface{}, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&RefreshTokenRecord{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count refresh tokens: %w", err)
	}

	var live int64
	if err := r.db.WithContext(ctx).
		Model(&RefreshTokenRecord{}).
		Where("expires_at > ?", time.Now()).
		Count(&live).Error; err != nil {
		return nil, fmt.Errorf("failed to count live refresh tokens: %w", err)
	}

	return map[string]interface{}{
		"total_refresh_tokens": total,
		"live_refresh_tokens":  live,
	}, nil
}

// Close performs cleanup operations
func (r *GormRefreshTokenRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	return sqlDB.Close()
}
