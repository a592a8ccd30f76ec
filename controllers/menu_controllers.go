package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Zack-River/Food-Delivery-Backend/models"
	"github.com/Zack-River/Food-Delivery-Backend/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// CreateMenu adds a menu to a restaurant (owner or admin).
func (mc *MenuController) CreateMenu(c *gin.Context) {
	user, err := currentUser(c, mc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var restaurant models.Restaurant
	if err := mc.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("restaurant not found"))
		return
	}

	if !canManageRestaurant(user, &restaurant) {
		utils.RespondAppError(c, utils.NewForbiddenError("you do not own this restaurant"))
		return
	}

	type request struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu := models.Menu{
		RestaurantID: restaurant.ID,
		Title:        req.Title,
		Description:  req.Description,
	}
	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// GetMenusByRestaurant lists a restaurant's menus. Public.
func (mc *MenuController) GetMenusByRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := mc.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("restaurant not found"))
		return
	}

	var menus []models.Menu
	query := mc.DB.Model(&models.Menu{}).Where("restaurant_id = ?", restaurant.ID)
	pageInfo, err := utils.Paginate(query, c, &menus)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondWithMeta(c, http.StatusOK, "Menus retrieved", pageInfo, menus)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	user, err := currentUser(c, mc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, c.Param("menu_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("menu not found"))
		return
	}

	var restaurant models.Restaurant
	if err := mc.DB.First(&restaurant, menu.RestaurantID).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("restaurant not found"))
		return
	}

	if !canManageRestaurant(user, &restaurant) {
		utils.RespondAppError(c, utils.NewForbiddenError("you do not own this restaurant"))
		return
	}

	type request struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Title != nil {
		menu.Title = *req.Title
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	user, err := currentUser(c, mc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, c.Param("menu_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("menu not found"))
		return
	}

	var restaurant models.Restaurant
	if err := mc.DB.First(&restaurant, menu.RestaurantID).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("restaurant not found"))
		return
	}

	if !canManageRestaurant(user, &restaurant) {
		utils.RespondAppError(c, utils.NewForbiddenError("you do not own this restaurant"))
		return
	}

	if err := mc.DB.Delete(&menu).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": menu.ID})
}

// CreateSubmenu adds a submenu under a menu (owner or admin).
func (mc *MenuController) CreateSubmenu(c *gin.Context) {
	user, err := currentUser(c, mc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, c.Param("menu_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("menu not found"))
		return
	}

	var restaurant models.Restaurant
	if err := mc.DB.First(&restaurant, menu.RestaurantID).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("restaurant not found"))
		return
	}

	if !canManageRestaurant(user, &restaurant) {
		utils.RespondAppError(c, utils.NewForbiddenError("you do not own this restaurant"))
		return
	}

	type request struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	submenu := models.Submenu{
		MenuID:      menu.ID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := mc.DB.Create(&submenu).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Submenu created", submenu)
}

// GetSubmenus lists the submenus of a menu. Public.
func (mc *MenuController) GetSubmenus(c *gin.Context) {
	var menu models.Menu
	if err := mc.DB.First(&menu, c.Param("menu_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("menu not found"))
		return
	}

	var submenus []models.Submenu
	if err := mc.DB.Where("menu_id = ?", menu.ID).Find(&submenus).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Submenus retrieved", submenus)
}
