package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"

	"civic-jharkhand-be/apperrors"
	"civic-jharkhand-be/classifier"
	"civic-jharkhand-be/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadURLPrefix is where saved images are served from.
const UploadURLPrefix = "/uploads"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

type UploadController struct {
	dir        string
	maxBytes   int64
	classifier classifier.Classifier
	logger     *zap.Logger
}

func NewUploadController(dir string, maxBytes int64, cls classifier.Classifier, logger *zap.Logger) *UploadController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cls == nil {
		cls = classifier.Fallback{}
	}
	return &UploadController{dir: dir, maxBytes: maxBytes, classifier: cls, logger: logger}
}

// UploadImage stores the multipart "image" file and returns the path to put on a report
func (uc *UploadController) UploadImage(c *gin.Context) {
	file, data, mtype, err := uc.readImage(c)
	if err != nil {
		utils.RespondError(c, uc.logger, err)
		return
	}

	name := uuid.NewString() + mtype.Extension()
	if err := c.SaveUploadedFile(file, filepath.Join(uc.dir, name)); err != nil {
		utils.RespondError(c, uc.logger, apperrors.Internal("failed to save upload", err))
		return
	}
	uc.logger.Info("image uploaded",
		zap.String("file", name),
		zap.Int("bytes", len(data)),
		zap.String("mime", mtype.String()),
	)

	c.JSON(http.StatusCreated, gin.H{"path": path.Join(UploadURLPrefix, name)})
}

// ClassifyImage suggests a category for the multipart "image" file
func (uc *UploadController) ClassifyImage(c *gin.Context) {
	_, data, mtype, err := uc.readImage(c)
	if err != nil {
		utils.RespondError(c, uc.logger, err)
		return
	}

	category := uc.classifier.Classify(c.Request.Context(), data, mtype.String())
	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (uc *UploadController) readImage(c *gin.Context) (*multipart.FileHeader, []byte, *mimetype.MIME, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, nil, nil, apperrors.Validation("image file is required")
	}
	if file.Size > uc.maxBytes {
		return nil, nil, nil, apperrors.Validation(fmt.Sprintf("image must be at most %d bytes", uc.maxBytes))
	}

	f, err := file.Open()
	if err != nil {
		return nil, nil, nil, apperrors.Internal("failed to open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, uc.maxBytes+1))
	if err != nil {
		return nil, nil, nil, apperrors.Internal("failed to read upload", err)
	}
	if int64(len(data)) > uc.maxBytes {
		return nil, nil, nil, apperrors.Validation(fmt.Sprintf("image must be at most %d bytes", uc.maxBytes))
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return nil, nil, nil, apperrors.Validation("only jpeg, png and webp images are accepted")
	}
	return file, data, mtype, nil
}
