package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Zack-River/Food-Delivery-Backend/models"
	"github.com/Zack-River/Food-Delivery-Backend/utils"
)

type ReviewController struct {
	DB *gorm.DB
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db}
}

// CreateReview lets a customer review a restaurant they ordered from.
func (rc *ReviewController) CreateReview(c *gin.Context) {
	user, err := currentUser(c, rc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if user.Role != models.RoleCustomer {
		utils.RespondAppError(c, utils.NewForbiddenError("only customers can post reviews"))
		return
	}

	type request struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		Rating       int    `json:"rating" binding:"required"`
		Comment      string `json:"comment"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		utils.RespondAppError(c, utils.NewValidationError("rating must be between 1 and 5"))
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("restaurant not found"))
		return
	}

	// Only customers with a completed order may review.
	var completed int64
	rc.DB.Model(&models.Order{}).
		Where("customer_id = ? AND restaurant_id = ? AND status = ?",
			user.ID, restaurant.ID, models.StatusCompleted).
		Count(&completed)
	if completed == 0 {
		utils.RespondAppError(c, utils.NewForbiddenError("you can only review restaurants you have ordered from"))
		return
	}

	review := models.Review{
		CustomerID:   user.ID,
		RestaurantID: restaurant.ID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := rc.DB.Create(&review).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Review created", review)
}

// GetRestaurantReviews is public, paginated, with the average rating in
// meta.
func (rc *ReviewController) GetRestaurantReviews(c *gin.Context) {
	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("restaurant not found"))
		return
	}

	var reviews []models.Review
	query := rc.DB.Model(&models.Review{}).Where("restaurant_id = ?", restaurant.ID)
	pageInfo, err := utils.Paginate(query, c, &reviews)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var average float64
	rc.DB.Model(&models.Review{}).
		Where("restaurant_id = ?", restaurant.ID).
		Select("COALESCE(AVG(rating), 0)").
		Row().Scan(&average)

	utils.RespondWithMeta(c, http.StatusOK, "Reviews retrieved", gin.H{
		"total":         pageInfo.Total,
		"page":          pageInfo.Page,
		"limit":         pageInfo.Limit,
		"averageRating": utils.Round2(average),
	}, reviews)
}

// DeleteReview removes the caller's own review; admins may remove any.
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	user, err := currentUser(c, rc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var review models.Review
	if err := rc.DB.First(&review, c.Param("id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("review not found"))
		return
	}

	if user.Role != models.RoleAdmin && review.CustomerID != user.ID {
		utils.RespondError(c, http.StatusForbidden, errors.New("you can only delete your own reviews"))
		return
	}

	if err := rc.DB.Delete(&review).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Review deleted", gin.H{"review_id": review.ID})
}
