package routes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitepay/internal/models"
)

type UploadRoutes struct {
	server ServerInterface
}

func NewUploadRoutes(server ServerInterface) *UploadRoutes {
	return &UploadRoutes{server: server}
}

func (ur *UploadRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(ur.server)

	r.POST("/uploads/work", middleware.AuthMiddleware(), ur.submitWorkHandler)
	r.POST("/uploads/material", middleware.AuthMiddleware(), ur.submitMaterialHandler)
	r.GET("/uploads/work", middleware.AuthMiddleware(), ur.listWorkHandler)
	r.GET("/uploads/material", middleware.AuthMiddleware(), ur.listMaterialHandler)
	r.GET("/uploads/:kind/:id/photo", middleware.AuthMiddleware(), ur.photoHandler)
	r.POST("/uploads/:kind/:id/verify", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), ur.verifyHandler)
	r.POST("/uploads/:kind/:id/reject", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), ur.rejectHandler)
}

// submitWorkHandler accepts a multipart form with the work details and an
// optional photo. The photo goes to S3 and its key is stored on the row.
func (ur *UploadRoutes) submitWorkHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	if user.Role != models.RoleWorker {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only workers can submit work uploads"})
		return
	}

	hours, err := strconv.ParseFloat(c.PostForm("hours_worked"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hours_worked"})
		return
	}

	workDate, err := time.Parse("2006-01-02", c.PostForm("work_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work_date, expected YYYY-MM-DD"})
		return
	}

	upload := &models.WorkUpload{
		WorkerID:    user.ID,
		HoursWorked: hours,
		WorkDate:    workDate,
		Description: c.PostForm("description"),
		UserName:    user.Name,
		UserRole:    user.Role,
	}

	if rateStr := c.PostForm("hourly_rate"); rateStr != "" {
		rate, err := strconv.ParseFloat(rateStr, 64)
		if err != nil || rate < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hourly_rate"})
			return
		}
		upload.HourlyRate = &rate
	}
	if gps := c.PostForm("gps_coordinates"); gps != "" {
		upload.GPSCoordinates = &gps
	}

	key, ok := ur.storePhoto(c, "work", user.ID)
	if !ok {
		return
	}
	upload.PhotoURL = key

	db := ur.server.GetDB()
	if err := db.WorkUploads.Submit(upload); err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ur.server.GetLogger().Error("work upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit work upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"upload": upload})
}

func (ur *UploadRoutes) submitMaterialHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	if user.Role != models.RoleSupplier {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only suppliers can submit material uploads"})
		return
	}

	quantity, err := strconv.ParseFloat(c.PostForm("quantity"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	deliveryDate, err := time.Parse("2006-01-02", c.PostForm("delivery_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery_date, expected YYYY-MM-DD"})
		return
	}

	upload := &models.MaterialUpload{
		SupplierID:   user.ID,
		MaterialType: c.PostForm("material_type"),
		Quantity:     quantity,
		DeliveryDate: deliveryDate,
		UserName:     user.Name,
		UserRole:     user.Role,
	}

	if priceStr := c.PostForm("unit_price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit_price"})
			return
		}
		upload.UnitPrice = &price
	}
	if desc := c.PostForm("description"); desc != "" {
		upload.Description = &desc
	}
	if gps := c.PostForm("gps_coordinates"); gps != "" {
		upload.GPSCoordinates = &gps
	}

	key, ok := ur.storePhoto(c, "material", user.ID)
	if !ok {
		return
	}
	upload.PhotoURL = key

	db := ur.server.GetDB()
	if err := db.MaterialUploads.Submit(upload); err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ur.server.GetLogger().Error("material upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit material upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"upload": upload})
}

// storePhoto uploads the optional "photo" form file and returns its S3
// key. Writes the error response itself and returns false on failure.
func (ur *UploadRoutes) storePhoto(c *gin.Context, kind string, submitterID uuid.UUID) (*string, bool) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo upload"})
		return nil, false
	}
	defer file.Close()

	result, err := ur.server.GetStorage().UploadPhoto(c.Request.Context(), file, header, kind, submitterID)
	if err != nil {
		ur.server.GetLogger().Error("photo upload failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to store photo"})
		return nil, false
	}
	return &result.S3Key, true
}

func (ur *UploadRoutes) listWorkHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	db := ur.server.GetDB()

	var (
		uploads []models.WorkUpload
		err     error
	)
	if user.IsManager() {
		uploads, err = db.WorkUploads.ListForManager(user.ID)
	} else {
		uploads, err = db.WorkUploads.ListBySubmitter(user.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch work uploads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}

func (ur *UploadRoutes) listMaterialHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	db := ur.server.GetDB()

	var (
		uploads []models.MaterialUpload
		err     error
	)
	if user.IsManager() {
		uploads, err = db.MaterialUploads.ListForManager(user.ID)
	} else {
		uploads, err = db.MaterialUploads.ListBySubmitter(user.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch material uploads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}

// photoHandler returns a short-lived presigned URL for an upload's photo.
// Managers can fetch photos for their team's uploads, submitters their own.
func (ur *UploadRoutes) photoHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	uploadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload ID"})
		return
	}

	submitterID, photoKey, ok := ur.lookupUpload(c, c.Param("kind"), uploadID)
	if !ok {
		return
	}
	if photoKey == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload has no photo"})
		return
	}

	allowed := submitterID == user.ID
	if !allowed && user.IsManager() {
		member, err := onTeam(ur.server, user.ID, submitterID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify team membership"})
			return
		}
		allowed = member
	}
	if !allowed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload not found"})
		return
	}

	url, err := ur.server.GetStorage().PhotoURL(c.Request.Context(), *photoKey, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate photo URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (ur *UploadRoutes) verifyHandler(c *gin.Context) {
	ur.review(c, models.UploadVerified)
}

func (ur *UploadRoutes) rejectHandler(c *gin.Context) {
	ur.review(c, models.UploadRejected)
}

func (ur *UploadRoutes) review(c *gin.Context, decision models.UploadStatus) {
	user := c.MustGet("user").(*models.User)

	uploadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload ID"})
		return
	}

	kind := c.Param("kind")
	submitterID, _, ok := ur.lookupUpload(c, kind, uploadID)
	if !ok {
		return
	}

	member, err := onTeam(ur.server, user.ID, submitterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify team membership"})
		return
	}
	if !member {
		// Uploads outside the manager's team look like missing ones.
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload not found"})
		return
	}

	db := ur.server.GetDB()
	if kind == "work" {
		err = db.WorkUploads.Review(uploadID, decision)
	} else {
		err = db.MaterialUploads.Review(uploadID, decision)
	}
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Upload not found"})
		case errors.Is(err, models.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "Upload has already been reviewed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to review upload"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": decision})
}

// lookupUpload resolves an upload of either kind to its submitter and
// photo key. Writes the error response itself.
func (ur *UploadRoutes) lookupUpload(c *gin.Context, kind string, id uuid.UUID) (uuid.UUID, *string, bool) {
	db := ur.server.GetDB()

	switch kind {
	case "work":
		upload, err := db.WorkUploads.Get(id)
		if err != nil {
			ur.writeLookupError(c, err)
			return uuid.Nil, nil, false
		}
		return upload.WorkerID, upload.PhotoURL, true
	case "material":
		upload, err := db.MaterialUploads.Get(id)
		if err != nil {
			ur.writeLookupError(c, err)
			return uuid.Nil, nil, false
		}
		return upload.SupplierID, upload.PhotoURL, true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Upload kind must be work or material"})
		return uuid.Nil, nil, false
	}
}

func (ur *UploadRoutes) writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch upload"})
}
