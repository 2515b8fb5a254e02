package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/contacthub/internal/config"
	"github.com/geocoder89/contacthub/internal/domain/contact"
	"github.com/geocoder89/contacthub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type ContactStore interface {
	Create(ctx context.Context, c contact.Contact) (contact.Contact, error)
	EmailExistsForUser(ctx context.Context, userID int64, email string) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]contact.Contact, error)
	GetByID(ctx context.Context, userID, id int64) (contact.Contact, error)
	Delete(ctx context.Context, userID, id int64) error
}

type ContactsHandler struct {
	repo ContactStore
}

func NewContactsHandler(repo ContactStore) *ContactsHandler {
	return &ContactsHandler{repo: repo}
}

// callerID resolves the authenticated user's id stashed by RequireAuth.
// Missing identity means a wiring bug, but still fail closed.
func callerID(ctx *gin.Context) (int64, bool) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok || id <= 0 {
		RespondUnauthorized(ctx, "Invalid or missing authentication token.")
		return 0, false
	}

	return id, true
}

func (h *ContactsHandler) AddContact(ctx *gin.Context) {
	var req contact.CreateContactRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if strings.TrimSpace(req.FirstName) == "" {
		RespondBadRequest(ctx, "First name is required.")
		return
	}

	if strings.TrimSpace(req.LastName) == "" {
		RespondBadRequest(ctx, "Last name is required.")
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		RespondBadRequest(ctx, "Email is required.")
		return
	}

	// deliberately weak syntactic check, matching the established contract
	if !strings.Contains(req.Email, "@") || !strings.Contains(req.Email, ".") {
		RespondBadRequest(ctx, "Invalid email format.")
		return
	}

	if dateOnly(req.BirthDate).After(dateOnly(time.Now())) {
		RespondBadRequest(ctx, "Birth date cannot be in the future.")
		return
	}

	if strings.TrimSpace(req.PhoneNumber) == "" {
		RespondBadRequest(ctx, "Phone number is required.")
		return
	}

	if !strings.HasPrefix(strings.TrimSpace(req.PhoneNumber), "+") {
		RespondBadRequest(ctx, "Phone number must start with '+' and include country code.")
		return
	}

	normalized, err := contact.NormalizePhone(req.PhoneNumber)

	if err != nil {
		if errors.Is(err, contact.ErrPhoneInvalid) {
			RespondBadRequest(ctx, "Invalid phone number.")
			return
		}

		RespondBadRequest(ctx, "Invalid phone number format.")
		return
	}

	userID, ok := callerID(ctx)

	if !ok {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	// fast-path duplicate check for this owner only
	exists, err := h.repo.EmailExistsForUser(cctx, userID, email)

	if err != nil {
		RespondInternal(ctx, "Could not add contact.")
		return
	}

	if exists {
		RespondConflict(ctx, "You already added this email.")
		return
	}

	_, err = h.repo.Create(cctx, contact.Contact{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhoneNumber: normalized,
		Email:       email,
		BirthDate:   req.BirthDate,
		UserID:      userID,
	})

	if err != nil {
		// unique index backstop for concurrent duplicate submissions
		if errors.Is(err, contact.ErrDuplicateEmail) {
			RespondConflict(ctx, "You already added this email.")
			return
		}

		RespondInternal(ctx, "Could not add contact.")
		return
	}

	RespondMessage(ctx, http.StatusOK, "Contact added successfully.")
}

func (h *ContactsHandler) ListContacts(ctx *gin.Context) {
	userID, ok := callerID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	contacts, err := h.repo.ListByUser(cctx, userID)

	if err != nil {
		RespondInternalErr(ctx, "An error occurred while retrieving contacts.", err)
		return
	}

	// zero contacts is an explicit not-found, not an empty success list
	if len(contacts) == 0 {
		RespondNotFound(ctx, "No contacts found for this user.")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Contacts retrieved.",
		"data":    contacts,
	})
}

func (h *ContactsHandler) GetContact(ctx *gin.Context) {
	id, ok := contactID(ctx)

	if !ok {
		return
	}

	userID, ok := callerID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	c, err := h.repo.GetByID(cctx, userID, id)

	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			// not-owned looks exactly like nonexistent
			RespondNotFound(ctx, "Contact not found.")
			return
		}

		RespondInternalErr(ctx, "An error occurred while retrieving the contact.", err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Contact found.",
		"data":    c,
	})
}

func (h *ContactsHandler) DeleteContact(ctx *gin.Context) {
	id, ok := contactID(ctx)

	if !ok {
		return
	}

	userID, ok := callerID(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	err := h.repo.Delete(cctx, userID, id)

	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			RespondNotFound(ctx, "Contact not found.")
			return
		}

		RespondInternalErr(ctx, "An error occurred while deleting the contact.", err)
		return
	}

	RespondMessage(ctx, http.StatusOK, "Contact deleted successfully.")
}

// contactID parses the :id param; ids are positive integers.
func contactID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid contact ID.")
		return 0, false
	}

	return id, true
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
