package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/satyahealth/hospital-booking/internal/httperr"
	"github.com/satyahealth/hospital-booking/internal/model"
	"github.com/satyahealth/hospital-booking/internal/repository"
	"github.com/satyahealth/hospital-booking/internal/utils"
)

// MessageHandler covers the public contact form and its admin listing.
type MessageHandler struct {
	Messages *repository.MessageRepo
}

func NewMessageHandler(m *repository.MessageRepo) *MessageHandler {
	return &MessageHandler{Messages: m}
}

type messageReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

// Send stores a contact-form submission.
func (h *MessageHandler) Send(c echo.Context) error {
	var req messageReq
	if err := c.Bind(&req); err != nil {
		return httperr.New(http.StatusBadRequest, "Please fill the full form!")
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" || req.Message == "" {
		return httperr.New(http.StatusBadRequest, "Please fill the full form!")
	}
	if !utils.IsValidEmail(req.Email) {
		return httperr.New(http.StatusBadRequest, "Please provide a valid email address!")
	}
	if !utils.IsValidPhone(req.Phone) {
		return httperr.New(http.StatusBadRequest, "Please provide a valid 10-digit phone number!")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	msg := model.Message{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
	}
	if err := h.Messages.Create(ctx, &msg); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Message Sent Successfully!",
	})
}

// GetAll returns every contact message for the admin dashboard.
func (h *MessageHandler) GetAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	messages, err := h.Messages.ListAll(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"messages": messages,
	})
}
