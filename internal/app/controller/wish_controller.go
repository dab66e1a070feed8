package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/wishwall-backend/internal/app/domain"
	"github.com/ikkim/wishwall-backend/internal/app/model"
	"github.com/ikkim/wishwall-backend/internal/app/service"
	apperrors "github.com/ikkim/wishwall-backend/internal/errors"
	"github.com/ikkim/wishwall-backend/internal/middleware"
	"github.com/ikkim/wishwall-backend/pkg/pagination"
)

type WishController struct {
	wishService  service.WishService
	cookieName   string
	cookieMaxAge int
}

// NewWishController builds the wish handlers. cookieMaxAge is in seconds.
func NewWishController(wishService service.WishService, cookieName string, cookieMaxAge int) *WishController {
	return &WishController{
		wishService:  wishService,
		cookieName:   cookieName,
		cookieMaxAge: cookieMaxAge,
	}
}

// CreateWish posts the caller's single wish
// POST /api/v1/wishes
func (ctrl *WishController) CreateWish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.CreateWishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create wish request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A wish text is required")
		return
	}

	userID, sessionID := callerIdentity(c)
	wish, mintedSessionID, err := ctrl.wishService.CreateWish(userID, sessionID, req.Name, req.Wish)
	if err != nil {
		ctrl.respondCreateError(c, err)
		return
	}

	// Anonymous authors keep their identity through the session cookie
	if mintedSessionID != "" {
		ctrl.setSessionCookie(c, mintedSessionID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"wish":       wish.ToResponse(),
		"session_id": mintedSessionID,
	})
}

// UpdateWish edits the caller's wish
// PUT /api/v1/wishes
func (ctrl *WishController) UpdateWish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.UpdateWishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update wish request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A wish text is required")
		return
	}

	userID, sessionID := callerIdentity(c)
	wish, err := ctrl.wishService.UpdateWish(userID, sessionID, req.Name, req.Wish)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoEditPermission):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.WishNoEditPermission, "No wish to edit without an identity")
		case errors.Is(err, service.ErrWishNotFound):
			apperrors.BadRequest(c, apperrors.WishNotFound, "You have not posted a wish yet")
		case errors.Is(err, domain.ErrEmptyContent):
			apperrors.BadRequest(c, apperrors.WishEmptyContent, "A wish cannot be empty")
		case errors.Is(err, domain.ErrContentTooLong):
			apperrors.BadRequest(c, apperrors.ValidationTooLong, "A wish is limited to 500 characters")
		default:
			log.Error("Failed to update wish", err, nil)
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wish updated",
		"wish":    wish.ToResponse(),
	})
}

// GetWishes returns the public feed, newest first
// GET /api/v1/wishes
func (ctrl *WishController) GetWishes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	params := pagination.FromRequest(c.Request)
	userID, sessionID := callerIdentity(c)

	wishes, count, err := ctrl.wishService.GetLatestWishes(params.Limit, params.Offset, userID, sessionID)
	if err != nil {
		log.Error("Failed to fetch wishes", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	responses := make([]model.WishResponse, len(wishes))
	for i := range wishes {
		responses[i] = wishes[i].ToResponse()
	}

	page := pagination.NewResult(responses, count, params)
	c.JSON(http.StatusOK, gin.H{
		"wishes":   page.Data,
		"count":    page.TotalCount,
		"limit":    page.Limit,
		"offset":   page.Offset,
		"has_next": page.HasNext,
	})
}

// GetCurrentWish returns the caller's wish, user identity first
// GET /api/v1/wishes/current
func (ctrl *WishController) GetCurrentWish(c *gin.Context) {
	userID, sessionID := callerIdentity(c)

	wish, err := ctrl.wishService.GetCurrentWish(userID, sessionID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch current wish", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	ctrl.respondOptionalWish(c, wish)
}

// GetUserWish returns the caller's wish, user identity first
// GET /api/v1/user/wish
func (ctrl *WishController) GetUserWish(c *gin.Context) {
	userID, sessionID := callerIdentity(c)

	wish, err := ctrl.wishService.GetUserWish(userID, sessionID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch user wish", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	ctrl.respondOptionalWish(c, wish)
}

// SupportWish records the caller's support for a wish
// POST /api/v1/wishes/:id/support
func (ctrl *WishController) SupportWish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	wishID := c.Param("id")
	userID, sessionID := callerIdentity(c)

	result, err := ctrl.wishService.SupportWish(wishID, userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWishNotFound):
			apperrors.NotFound(c, apperrors.WishNotFound, "Wish not found")
		case errors.Is(err, service.ErrSelfSupport):
			apperrors.Forbidden(c, apperrors.SupportSelfNotAllowed, "You cannot support your own wish")
		default:
			log.Error("Failed to support wish", err, map[string]interface{}{
				"wish_id": wishID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	if result.SessionID != "" && sessionID == nil {
		ctrl.setSessionCookie(c, result.SessionID)
	}

	message := "Wish supported"
	if result.AlreadySupported {
		message = "Already supporting this wish"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           message,
		"success":           result.Success,
		"already_supported": result.AlreadySupported,
		"support_count":     result.Wish.SupportCount,
	})
}

// UnsupportWish withdraws the caller's support
// DELETE /api/v1/wishes/:id/support
func (ctrl *WishController) UnsupportWish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	wishID := c.Param("id")
	userID, sessionID := callerIdentity(c)

	result, err := ctrl.wishService.UnsupportWish(wishID, userID, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrWishNotFound) {
			apperrors.NotFound(c, apperrors.WishNotFound, "Wish not found")
			return
		}
		log.Error("Failed to unsupport wish", err, map[string]interface{}{
			"wish_id": wishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	message := "Support removed"
	if !result.WasSupported {
		message = "You were not supporting this wish"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       message,
		"success":       result.Success,
		"was_supported": result.WasSupported,
		"support_count": result.Wish.SupportCount,
	})
}

// GetSupportStatus reports whether the caller supports a wish
// GET /api/v1/wishes/:id/support
func (ctrl *WishController) GetSupportStatus(c *gin.Context) {
	wishID := c.Param("id")
	userID, sessionID := callerIdentity(c)

	wish, supported, err := ctrl.wishService.GetWishSupportStatus(wishID, userID, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrWishNotFound) {
			apperrors.NotFound(c, apperrors.WishNotFound, "Wish not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to fetch support status", err, map[string]interface{}{
			"wish_id": wishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_supported": supported,
		"wish":         wish.ToResponse(),
	})
}

func (ctrl *WishController) respondCreateError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)
	switch {
	case errors.Is(err, service.ErrWishAlreadyPosted):
		apperrors.BadRequest(c, apperrors.WishAlreadyPosted, "You have already posted a wish")
	case errors.Is(err, domain.ErrEmptyContent):
		apperrors.BadRequest(c, apperrors.WishEmptyContent, "A wish cannot be empty")
	case errors.Is(err, domain.ErrContentTooLong):
		apperrors.BadRequest(c, apperrors.ValidationTooLong, "A wish is limited to 500 characters")
	default:
		log.Error("Failed to create wish", err, nil)
		apperrors.InternalError(c, "")
	}
}

func (ctrl *WishController) respondOptionalWish(c *gin.Context, wish *model.Wish) {
	if wish == nil {
		c.JSON(http.StatusOK, gin.H{"wish": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wish": wish.ToResponse()})
}

func (ctrl *WishController) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetCookie(ctrl.cookieName, sessionID, ctrl.cookieMaxAge, "/", "", false, true)
}

// callerIdentity pulls the resolved identity out of the request context.
func callerIdentity(c *gin.Context) (*uint, *string) {
	var userID *uint
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}
	var sessionID *string
	if id, ok := middleware.GetSessionID(c); ok {
		sessionID = &id
	}
	return userID, sessionID
}
