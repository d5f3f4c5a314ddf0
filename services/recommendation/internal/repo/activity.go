package repo

import (
	"context"

	"github.com/Skotchmaster/dishonline/services/recommendation/internal/models"
)

func (r *GormRepo) CreateActivity(ctx context.Context, a *models.UserActivity) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *GormRepo) CountActivities(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.UserActivity{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
