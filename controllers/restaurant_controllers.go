package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Zack-River/Food-Delivery-Backend/models"
	"github.com/Zack-River/Food-Delivery-Backend/utils"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

// canManageRestaurant allows the owning restaurant user or an admin.
func canManageRestaurant(user *models.User, restaurant *models.Restaurant) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	return user.Role == models.RoleRestaurant && restaurant.UserID == user.ID
}

// CreateRestaurant registers the caller's restaurant. One per user.
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	user, err := currentUser(c, rc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	type request struct {
		Name    string `json:"name" binding:"required"`
		Address string `json:"address" binding:"required"`
		Phone   string `json:"phone"`
		Cuisine string `json:"cuisine"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var existing models.Restaurant
	if err := rc.DB.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		utils.RespondAppError(c, utils.NewConflictError("you already own a restaurant"))
		return
	}

	restaurant := models.Restaurant{
		UserID:  user.ID,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Cuisine: req.Cuisine,
	}
	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// GetAllRestaurants is public, paginated.
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	query := rc.DB.Model(&models.Restaurant{})

	if cuisine := c.Query("cuisine"); cuisine != "" {
		query = query.Where("cuisine = ?", cuisine)
	}

	pageInfo, err := utils.Paginate(query, c, &restaurants)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondWithMeta(c, http.StatusOK, "Restaurants retrieved", pageInfo, restaurants)
}

func (rc *RestaurantController) GetRestaurantByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("restaurant not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant retrieved", restaurant)
}

func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	user, err := currentUser(c, rc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("restaurant not found"))
		return
	}

	if !canManageRestaurant(user, &restaurant) {
		utils.RespondAppError(c, utils.NewForbiddenError("you do not own this restaurant"))
		return
	}

	type request struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
		Phone   *string `json:"phone"`
		Cuisine *string `json:"cuisine"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.Phone != nil {
		restaurant.Phone = *req.Phone
	}
	if req.Cuisine != nil {
		restaurant.Cuisine = *req.Cuisine
	}

	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

// DeleteRestaurant is admin only.
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}

	if err := rc.DB.Delete(&models.Restaurant{}, id).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", gin.H{"restaurant_id": id})
}
