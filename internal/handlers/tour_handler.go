package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/RoberSamy04/natours/internal/models"
	"github.com/RoberSamy04/natours/internal/services"
	"github.com/RoberSamy04/natours/pkg/apperrors"
)

// maxTourImages - обложка плюс три кадра галереи
const maxTourImages = 3

type TourHandler struct {
	*CRUDHandler[models.Tour]
	tourService   services.TourService
	uploadService services.UploadService
}

func NewTourHandler(base *BaseHandler, tourService services.TourService, uploadService services.UploadService) *TourHandler {
	return &TourHandler{
		CRUDHandler:   NewCRUDHandler[models.Tour](base, tourService),
		tourService:   tourService,
		uploadService: uploadService,
	}
}

// AliasTopTours - пресет "/top-5-cheap": подменяет query до общего GetAll
func (h *TourHandler) AliasTopTours(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Set("limit", "5")
	q.Set("sort", "-ratingsAverage,price")
	q.Set("fields", "name,price,ratingsAverage,summary,difficulty")
	c.Request.URL.RawQuery = q.Encode()

	h.GetAll(c)
}

func (h *TourHandler) GetStats(c *gin.Context) {
	stats, err := h.tourService.Stats(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"stats": stats},
	})
}

func (h *TourHandler) GetMonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid year: "+c.Param("year")))
		return
	}

	plan, err := h.tourService.MonthlyPlan(c.Request.Context(), year)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"plan": plan},
	})
}

// GetToursWithin - GET /tours-within/:distance/center/:latlng/unit/:unit
func (h *TourHandler) GetToursWithin(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid distance: "+c.Param("distance")))
		return
	}

	tours, err := h.tourService.ToursWithin(c.Request.Context(), distance, c.Param("latlng"), c.Param("unit"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(tours),
		"data":    gin.H{"data": tours},
	})
}

// GetDistances - GET /distances/:latlng/unit/:unit
func (h *TourHandler) GetDistances(c *gin.Context) {
	distances, err := h.tourService.Distances(c.Request.Context(), c.Param("latlng"), c.Param("unit"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"data": distances},
	})
}

// UploadImages принимает multipart-поля imageCover (1 файл) и images
// (до 3 файлов), ресайзит и подставляет имена файлов в тур
func (h *TourHandler) UploadImages(c *gin.Context) {
	tourID := c.Param("id")

	form, err := c.MultipartForm()
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid multipart form: "+err.Error()))
		return
	}

	var cover io.Reader
	var coverClose func()
	if files := form.File["imageCover"]; len(files) > 0 {
		f, err := files[0].Open()
		if err != nil {
			h.HandleServiceError(c, apperrors.Internal(err))
			return
		}
		cover, coverClose = f, func() { f.Close() }
	}
	if coverClose != nil {
		defer coverClose()
	}

	galleryFiles := form.File["images"]
	if len(galleryFiles) > maxTourImages {
		galleryFiles = galleryFiles[:maxTourImages]
	}

	gallery, closeAll, err := openAll(galleryFiles)
	if err != nil {
		h.HandleServiceError(c, apperrors.Internal(err))
		return
	}
	defer closeAll()

	coverName, imageNames, err := h.uploadService.SaveTourImages(c.Request.Context(), tourID, cover, gallery)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	update := bson.M{}
	if coverName != "" {
		update["imageCover"] = coverName
	}
	if len(imageNames) > 0 {
		update["images"] = imageNames
	}
	if len(update) == 0 {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Please provide imageCover or images files"))
		return
	}

	tour, err := h.tourService.Update(c.Request.Context(), tourID, update)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"data": tour},
	})
}

func openAll(headers []*multipart.FileHeader) ([]io.Reader, func(), error) {
	readers := make([]io.Reader, 0, len(headers))
	closers := make([]func() error, 0, len(headers))
	closeAll := func() {
		for _, cl := range closers {
			cl()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		readers = append(readers, f)
		closers = append(closers, f.Close)
	}
	return readers, closeAll, nil
}
