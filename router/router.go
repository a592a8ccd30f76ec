package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Zack-River/Food-Delivery-Backend/controllers"
	"github.com/Zack-River/Food-Delivery-Backend/middlewares"
	"github.com/Zack-River/Food-Delivery-Backend/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// 50 requests per second per IP across the whole API. Must be
	// registered before any route so Gin applies it to all of them.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	menuCtrl := controllers.NewMenuController(db)
	menuItemCtrl := controllers.NewMenuItemController(db)
	orderCtrl := controllers.NewOrderController(db)
	reviewCtrl := controllers.NewReviewController(db)
	paymentCtrl := controllers.NewPaymentController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// AUTH
	auth := api.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/register", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
	}
	api.POST("/auth/logout", middlewares.AuthMiddleware(), userCtrl.Logout)
	api.GET("/auth/profile", middlewares.AuthMiddleware(), userCtrl.GetProfile)

	// RESTAURANTS (browse is public)
	api.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	api.GET("/restaurants/:id", restaurantCtrl.GetRestaurantByID)
	api.GET("/restaurants/:id/menus", menuCtrl.GetMenusByRestaurant)
	api.GET("/restaurants/:id/reviews", reviewCtrl.GetRestaurantReviews)

	restaurants := api.Group("/restaurants")
	restaurants.Use(middlewares.AuthMiddleware())
	{
		restaurants.POST("", middlewares.RequireRoles(models.RoleRestaurant), restaurantCtrl.CreateRestaurant)
		restaurants.PUT("/:id", middlewares.RequireRoles(models.RoleRestaurant, models.RoleAdmin), restaurantCtrl.UpdateRestaurant)
		restaurants.DELETE("/:id", middlewares.RequireRoles(models.RoleAdmin), restaurantCtrl.DeleteRestaurant)
		restaurants.POST("/:id/menus", middlewares.RequireRoles(models.RoleRestaurant, models.RoleAdmin), menuCtrl.CreateMenu)
	}

	// MENUS / SUBMENUS
	api.GET("/menus/:menu_id/submenus", menuCtrl.GetSubmenus)
	menus := api.Group("/menus")
	menus.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(models.RoleRestaurant, models.RoleAdmin))
	{
		menus.PUT("/:menu_id", menuCtrl.UpdateMenu)
		menus.DELETE("/:menu_id", menuCtrl.DeleteMenu)
		menus.POST("/:menu_id/submenus", menuCtrl.CreateSubmenu)
	}

	// MENU ITEMS (browse is public)
	api.GET("/menuItems", menuItemCtrl.GetMenuItems)
	api.GET("/menuItems/:id", menuItemCtrl.GetMenuItemByID)
	menuItems := api.Group("/menuItems")
	menuItems.Use(middlewares.AuthMiddleware(), middlewares.RequireRoles(models.RoleRestaurant, models.RoleAdmin))
	{
		menuItems.POST("", menuItemCtrl.CreateMenuItem)
		menuItems.PUT("/:id", menuItemCtrl.UpdateMenuItem)
		menuItems.DELETE("/:id", menuItemCtrl.DeleteMenuItem)
	}

	// ORDERS
	orders := api.Group("/orders")
	orders.Use(middlewares.AuthMiddleware())
	{
		orders.POST("", middlewares.RequireRoles(models.RoleCustomer, models.RoleAdmin), orderCtrl.PlaceOrder)
		orders.GET("", orderCtrl.GetOrders)
		orders.GET("/:id", orderCtrl.GetOrderByID)
		orders.PATCH("/:id", orderCtrl.UpdateOrderStatus)
		orders.PUT("/:id", orderCtrl.UpdateOrderStatus)
		orders.POST("/:id/cancel", orderCtrl.CancelOrder)
	}

	// REVIEWS
	reviews := api.Group("/reviews")
	reviews.Use(middlewares.AuthMiddleware())
	{
		reviews.POST("", reviewCtrl.CreateReview)
		reviews.DELETE("/:id", reviewCtrl.DeleteReview)
	}

	// PAYMENTS (callback is unauthenticated, signature-verified)
	api.POST("/payment/callback", paymentCtrl.HandleCallback)
	payments := api.Group("/payment")
	payments.Use(middlewares.AuthMiddleware())
	{
		payments.POST("", paymentCtrl.CreatePayment)
		payments.GET("/order/:order_id", paymentCtrl.GetPaymentByOrder)
		payments.POST("/:id/settle", paymentCtrl.SettleCashPayment)
	}

	return r
}
