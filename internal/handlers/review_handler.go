package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"bookbazaar/internal/middleware"
	"bookbazaar/internal/models"
	"bookbazaar/internal/services"
)

// ReviewHandler handles HTTP requests for item reviews.
type ReviewHandler struct {
	service  *services.ReviewService
	validate *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the review routes. Reading an item's reviews
// is public; writing requires a session.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	reviews := router.Group("/reviews")
	reviews.Get("/item/:itemType/:itemId", h.HandleListByItem)
	reviews.Post("/", protect, h.HandleCreate)
	reviews.Put("/:id", protect, h.HandleUpdate)
	reviews.Delete("/:id", protect, h.HandleDelete)
}

// HandleListByItem returns all reviews for one catalog item, newest
// first.
func (h *ReviewHandler) HandleListByItem(c *fiber.Ctx) error {
	reviews, err := h.service.ListByItem(models.ItemType(c.Params("itemType")), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return respondCount(c, reviews, int64(len(reviews)))
}

// CreateReviewRequest is the request body for posting a review.
type CreateReviewRequest struct {
	ItemType string `json:"item_type" validate:"required,oneof=book note"`
	ItemID   string `json:"item_id" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment"`
}

// HandleCreate records a review by the caller.
func (h *ReviewHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	review, err := h.service.Create(middleware.CurrentUser(c), services.CreateReviewInput{
		ItemType: models.ItemType(req.ItemType),
		ItemID:   req.ItemID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "Review created successfully", review)
}

// UpdateReviewRequest is the request body for partial review updates.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// HandleUpdate modifies a review under author-or-admin rules.
func (h *ReviewHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	review, err := h.service.Update(middleware.CurrentUser(c), c.Params("id"), services.ReviewPatch{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Review updated successfully", review)
}

// HandleDelete removes a review under author-or-admin rules.
func (h *ReviewHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Review deleted successfully", nil)
}
