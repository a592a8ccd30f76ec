package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Zack-River/Food-Delivery-Backend/models"
	"github.com/Zack-River/Food-Delivery-Backend/utils"
)

// currentUser loads the authenticated user set by the auth middleware.
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, error) {
	userIDValue, exists := c.Get("user_id")
	if !exists {
		return nil, errors.New("user id not found in context")
	}

	userID, ok := userIDValue.(uint)
	if !ok {
		return nil, errors.New("invalid user id type")
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("user not found")
		}
		return nil, err
	}
	return &user, nil
}
