package routes

import "github.com/gin-gonic/gin"

// UploadRoutes sets up image upload and classification
func UploadRoutes(r *gin.RouterGroup, d *Dependencies) {
	r.POST("/upload", d.Authenticate, d.Uploads.UploadImage)
	r.POST("/classify", d.Authenticate, d.Uploads.ClassifyImage)
}
