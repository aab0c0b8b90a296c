package routes

import (
	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"
)

// Security regroupe ce dont les middlewares d'accès ont besoin.
type Security struct {
	Store        *database.Store
	JWTSecret    string
	LoginLimiter *cache.Limiter
	Auditor      *utils.Auditor
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, sec Security) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/health", h.Health)

	authenticated := middleware.AuthRequired(sec.Store, sec.JWTSecret)
	admin := []gin.HandlerFunc{
		middleware.AuthRequired(sec.Store, sec.JWTSecret, models.RoleAdmin),
		middleware.AuditWrites(sec.Auditor),
	}

	// Utilisateurs
	users := api.Group("/users")
	users.POST("/register", h.Register)
	users.POST("/login", middleware.LoginRateLimit(sec.LoginLimiter), h.Login)
	users.GET("", append(admin, h.ListUsers)...)
	users.GET("/:id", authenticated, middleware.RequireSelfOrAdmin("id"), h.GetUser)
	users.PUT("/:id", authenticated, middleware.RequireSelfOrAdmin("id"), h.UpdateUser)
	users.DELETE("/:id", append(admin, h.DeleteUser)...)

	// Catalogue
	categories := api.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.GET("/:id", h.GetCategory)
	categories.POST("", append(admin, h.CreateCategory)...)
	categories.PUT("/:id", append(admin, h.UpdateCategory)...)
	categories.DELETE("/:id", append(admin, h.DeleteCategory)...)

	brands := api.Group("/brands")
	brands.GET("", h.ListBrands)
	brands.GET("/:id", h.GetBrand)
	brands.POST("", append(admin, h.CreateBrand)...)
	brands.PUT("/:id", append(admin, h.UpdateBrand)...)
	brands.DELETE("/:id", append(admin, h.DeleteBrand)...)

	products := api.Group("/products")
	products.GET("", h.ListProducts)
	products.GET("/search", h.SearchProducts)
	products.GET("/:id", h.GetProduct)
	products.POST("", append(admin, h.CreateProduct)...)
	products.PUT("/:id", append(admin, h.UpdateProduct)...)
	products.DELETE("/:id", append(admin, h.DeleteProduct)...)

	productImages := api.Group("/productimages")
	productImages.GET("", h.ListProductImages)
	productImages.GET("/:id", h.GetProductImage)
	productImages.POST("", append(admin, h.CreateProductImage)...)
	productImages.DELETE("/:id", append(admin, h.DeleteProductImage)...)

	// Panier et commande
	carts := api.Group("/carts")
	carts.GET("", append(admin, h.ListCarts)...)
	carts.POST("/checkout", h.Checkout)
	carts.GET("/:id", h.GetCart)
	carts.POST("", h.CreateCart)
	carts.DELETE("/:id", h.DeleteCart)

	cartItems := api.Group("/cartitems")
	cartItems.GET("", h.ListCartItems)
	cartItems.GET("/:id", h.GetCartItem)
	cartItems.POST("", h.UpsertCartItem)
	cartItems.PUT("/:id", h.UpdateCartItem)
	cartItems.DELETE("/:id", h.DeleteCartItem)

	orders := api.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)
	orders.PUT("/:id", append(admin, h.UpdateOrder)...)
	orders.DELETE("/:id", append(admin, h.DeleteOrder)...)

	orderDetails := api.Group("/orderdetails")
	orderDetails.GET("", h.ListOrderDetails)
	orderDetails.GET("/:id", h.GetOrderDetail)
	orderDetails.POST("", append(admin, h.CreateOrderDetail)...)
	orderDetails.PUT("/:id", append(admin, h.UpdateOrderDetail)...)
	orderDetails.DELETE("/:id", append(admin, h.DeleteOrderDetail)...)

	// Contenus
	banners := api.Group("/banners")
	banners.GET("", h.ListBanners)
	banners.GET("/:id", h.GetBanner)
	banners.POST("", append(admin, h.CreateBanner)...)
	banners.PUT("/:id", append(admin, h.UpdateBanner)...)
	banners.DELETE("/:id", append(admin, h.DeleteBanner)...)

	bannerDetails := api.Group("/bannerdetails")
	bannerDetails.GET("", h.ListBannerDetails)
	bannerDetails.POST("", append(admin, h.CreateBannerDetail)...)
	bannerDetails.DELETE("/:id", append(admin, h.DeleteBannerDetail)...)

	news := api.Group("/news")
	news.GET("", h.ListNews)
	news.GET("/:id", h.GetNews)
	news.POST("", append(admin, h.CreateNews)...)
	news.PUT("/:id", append(admin, h.UpdateNews)...)
	news.DELETE("/:id", append(admin, h.DeleteNews)...)

	newsDetails := api.Group("/newsdetails")
	newsDetails.GET("", h.ListNewsDetails)
	newsDetails.POST("", append(admin, h.CreateNewsDetail)...)
	newsDetails.DELETE("/:id", append(admin, h.DeleteNewsDetail)...)

	feedbacks := api.Group("/feedbacks")
	feedbacks.GET("", h.ListFeedbacks)
	feedbacks.POST("", authenticated, h.CreateFeedback)

	images := api.Group("/images")
	images.POST("/upload", append(admin, h.UploadImage)...)
	images.DELETE("/delete", append(admin, h.DeleteImage)...)
	images.GET("/:fileName", h.ViewImage)
}
