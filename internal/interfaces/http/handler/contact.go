package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	contactapp "github.com/contactbook/backend/internal/application/contact"
	"github.com/contactbook/backend/internal/domain/shared"
)

const birthdayLayout = "2006-01-02"

// ContactHandler handles contact-related API endpoints
type ContactHandler struct {
	BaseHandler
	contactService *contactapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *contactapp.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// ContactRequest represents a request to create or fully update a contact
type ContactRequest struct {
	Firstname   string  `json:"firstname" binding:"required,min=1,max=25" example:"Grace"`
	Lastname    string  `json:"lastname" binding:"required,min=1,max=25" example:"Hopper"`
	Email       string  `json:"email" binding:"required,email,max=250" example:"grace@example.com"`
	Phone       string  `json:"phone" binding:"required,min=1,max=50" example:"+12025550101"`
	Birthday    *string `json:"birthday" binding:"omitempty,datetime=2006-01-02" example:"1906-12-09"`
	Description string  `json:"description" binding:"max=150" example:"Navy admiral"`
}

// ListContactsQuery represents pagination query parameters
type ListContactsQuery struct {
	Skip  int `form:"skip,default=0" binding:"gte=0"`
	Limit int `form:"limit,default=10" binding:"gte=0,lte=100"`
}

func (r *ContactRequest) birthday() (*time.Time, error) {
	if r.Birthday == nil || *r.Birthday == "" {
		return nil, nil
	}
	t, err := time.Parse(birthdayLayout, *r.Birthday)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// handleContactError maps not-found errors to the contact-specific message
func (h *ContactHandler) handleContactError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND" {
		h.NotFound(c, "Contact not found")
		return
	}
	h.HandleError(c, err)
}

func contactID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return uint(id), nil
}

// List returns a page of the caller's contacts
func (h *ContactHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query ListContactsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.bindingError(c, err)
		return
	}

	contacts, err := h.contactService.List(c.Request.Context(), userID, contactapp.ListInput{
		Skip:  query.Skip,
		Limit: query.Limit,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contacts)
}

// GetByID returns one of the caller's contacts
func (h *ContactHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := contactID(c)
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	contact, err := h.contactService.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		h.handleContactError(c, err)
		return
	}

	h.Success(c, contact)
}

// Create creates a new contact for the caller
func (h *ContactHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}

	birthday, err := req.birthday()
	if err != nil {
		h.BadRequest(c, "Invalid birthday format, expected YYYY-MM-DD")
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), userID, contactapp.CreateContactInput{
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		Email:       req.Email,
		Phone:       req.Phone,
		Birthday:    birthday,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, contact)
}

// Update overwrites all fields of one of the caller's contacts
func (h *ContactHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := contactID(c)
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindingError(c, err)
		return
	}

	birthday, err := req.birthday()
	if err != nil {
		h.BadRequest(c, "Invalid birthday format, expected YYYY-MM-DD")
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), userID, id, contactapp.UpdateContactInput{
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		Email:       req.Email,
		Phone:       req.Phone,
		Birthday:    birthday,
		Description: req.Description,
	})
	if err != nil {
		h.handleContactError(c, err)
		return
	}

	h.Success(c, contact)
}

// Delete removes one of the caller's contacts and returns the removed contact
func (h *ContactHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := contactID(c)
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	contact, err := h.contactService.Delete(c.Request.Context(), userID, id)
	if err != nil {
		h.handleContactError(c, err)
		return
	}

	h.Success(c, contact)
}

// Search returns the caller's contacts matching any of the provided filters.
// Each filter is an exact match; a contact appears once per filter it matches.
func (h *ContactHandler) Search(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	input := contactapp.SearchInput{}
	if v, ok := c.GetQuery("firstname"); ok {
		input.Firstname = &v
	}
	if v, ok := c.GetQuery("lastname"); ok {
		input.Lastname = &v
	}
	if v, ok := c.GetQuery("email"); ok {
		input.Email = &v
	}

	contacts, err := h.contactService.Search(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contacts)
}

// Birthdays returns the caller's contacts with a birthday in the next seven days
func (h *ContactHandler) Birthdays(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contacts, err := h.contactService.UpcomingBirthdays(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contacts)
}
