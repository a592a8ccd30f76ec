package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Zack-River/Food-Delivery-Backend/models"
	"github.com/Zack-River/Food-Delivery-Backend/services"
	"github.com/Zack-River/Food-Delivery-Backend/utils"
)

type MenuItemController struct {
	DB  *gorm.DB
	svc *services.OrderService
}

func NewMenuItemController(db *gorm.DB) *MenuItemController {
	return &MenuItemController{DB: db, svc: services.NewOrderService(db)}
}

type variationRequest struct {
	Size        string  `json:"size" binding:"required"`
	Price       float64 `json:"price"`
	IsAvailable *bool   `json:"isAvailable"`
}

func toVariations(reqs []variationRequest) []models.Variation {
	variations := make([]models.Variation, 0, len(reqs))
	for _, v := range reqs {
		available := true
		if v.IsAvailable != nil {
			available = *v.IsAvailable
		}
		variations = append(variations, models.Variation{
			Size:        v.Size,
			Price:       v.Price,
			IsAvailable: available,
		})
	}
	return variations
}

// requireItemOwnership resolves the item's restaurant through the parent
// chain and checks the caller may manage it.
func (mic *MenuItemController) requireItemOwnership(c *gin.Context, item *models.MenuItem) bool {
	user, err := currentUser(c, mic.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return false
	}

	restaurantID, err := mic.svc.ResolveRestaurantID(item)
	if err != nil {
		utils.RespondAppError(c, err)
		return false
	}

	var restaurant models.Restaurant
	if err := mic.DB.First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("restaurant not found"))
		return false
	}

	if !canManageRestaurant(user, &restaurant) {
		utils.RespondAppError(c, utils.NewForbiddenError("you do not own this menu item"))
		return false
	}
	return true
}

// CreateMenuItem creates an item under a menu or submenu.
func (mic *MenuItemController) CreateMenuItem(c *gin.Context) {
	type request struct {
		ParentType  string             `json:"parentType" binding:"required"`
		ParentID    uint               `json:"parentId" binding:"required"`
		Name        string             `json:"name" binding:"required"`
		Description string             `json:"description" binding:"required"`
		Category    []string           `json:"category" binding:"required"`
		Variations  []variationRequest `json:"variations" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.ParentType != models.ParentTypeMenu && req.ParentType != models.ParentTypeSubmenu {
		utils.RespondError(c, http.StatusBadRequest, errors.New("parentType must be Menu or Submenu"))
		return
	}

	if err := models.ValidateCategories(req.Category); err != nil {
		utils.RespondAppError(c, utils.NewValidationError(err.Error()))
		return
	}

	variations := toVariations(req.Variations)
	if err := models.ValidateVariations(variations); err != nil {
		utils.RespondAppError(c, utils.NewValidationError(err.Error()))
		return
	}

	item := models.MenuItem{
		ParentType:  req.ParentType,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
		Variations:  variations,
	}
	if err := item.SetCategories(req.Category); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	// Parent must exist and belong to the caller.
	if !mic.requireItemOwnership(c, &item) {
		return
	}

	if err := mic.DB.Create(&item).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondWithMeta(c, http.StatusCreated, "Menu item created",
		gin.H{"categories": item.GetCategories()}, item)
}

// GetMenuItems lists items under a menu or submenu. Public.
func (mic *MenuItemController) GetMenuItems(c *gin.Context) {
	parentType := c.Query("parentType")
	parentID := c.Query("parentId")

	if parentType != models.ParentTypeMenu && parentType != models.ParentTypeSubmenu {
		utils.RespondError(c, http.StatusBadRequest, errors.New("parentType must be Menu or Submenu"))
		return
	}

	var items []models.MenuItem
	query := mic.DB.Model(&models.MenuItem{}).
		Preload("Variations").
		Where("parent_type = ? AND parent_id = ?", parentType, parentID)

	pageInfo, err := utils.Paginate(query, c, &items)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondWithMeta(c, http.StatusOK, "Menu items retrieved", pageInfo, items)
}

func (mic *MenuItemController) GetMenuItemByID(c *gin.Context) {
	var item models.MenuItem
	if err := mic.DB.Preload("Variations").First(&item, c.Param("id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("menu item not found"))
		return
	}

	utils.RespondWithMeta(c, http.StatusOK, "Menu item retrieved",
		gin.H{"categories": item.GetCategories()}, item)
}

// UpdateMenuItem replaces the mutable fields; when variations are sent
// the whole set is replaced (variations have no independent lifecycle).
func (mic *MenuItemController) UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := mic.DB.Preload("Variations").First(&item, c.Param("id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("menu item not found"))
		return
	}

	if !mic.requireItemOwnership(c, &item) {
		return
	}

	type request struct {
		Name        *string            `json:"name"`
		Description *string            `json:"description"`
		Category    []string           `json:"category"`
		Variations  []variationRequest `json:"variations"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Category != nil {
		if err := models.ValidateCategories(req.Category); err != nil {
			utils.RespondAppError(c, utils.NewValidationError(err.Error()))
			return
		}
		if err := item.SetCategories(req.Category); err != nil {
			utils.RespondAppError(c, err)
			return
		}
	}

	err := mic.DB.Transaction(func(tx *gorm.DB) error {
		if req.Variations != nil {
			variations := toVariations(req.Variations)
			if err := models.ValidateVariations(variations); err != nil {
				return utils.NewValidationError(err.Error())
			}
			if err := tx.Where("menu_item_id = ?", item.ID).Delete(&models.Variation{}).Error; err != nil {
				return err
			}
			for i := range variations {
				variations[i].MenuItemID = item.ID
			}
			if err := tx.Create(&variations).Error; err != nil {
				return err
			}
			item.Variations = variations
		}
		return tx.Omit("Variations").Save(&item).Error
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (mic *MenuItemController) DeleteMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := mic.DB.First(&item, c.Param("id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("menu item not found"))
		return
	}

	if !mic.requireItemOwnership(c, &item) {
		return
	}

	if err := mic.DB.Select("Variations").Delete(&item).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": item.ID})
}
