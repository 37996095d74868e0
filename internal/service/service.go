package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"campusportal/internal/dto"
	"campusportal/internal/model"
	"campusportal/internal/repo"
	"campusportal/pkg/validator"
)

// Service is the HTTP surface over the portal stores.
type Service interface {
	ListEvents(c *gin.Context)
	GetEvent(c *gin.Context)
	CreateEvent(c *gin.Context)
	DeleteEvent(c *gin.Context)
	ListRegistrations(c *gin.Context)
	CreateRegistration(c *gin.Context)
	UpdateRegistrationStatus(c *gin.Context)
	Signup(c *gin.Context)
	Login(c *gin.Context)
	UpdateProfile(c *gin.Context)
}

// NoticePublisher emits registration lifecycle notices for the notifier
// worker. A nil publisher disables notifications.
type NoticePublisher interface {
	Publish(message []byte) error
}

type service struct {
	events   repo.EventStore
	regs     repo.RegistrationStore
	accounts repo.AccountStore
	log      *zerolog.Logger
	notices  NoticePublisher
}

func NewService(events repo.EventStore, regs repo.RegistrationStore, accounts repo.AccountStore, log *zerolog.Logger, notices NoticePublisher) Service {
	return &service{
		events:   events,
		regs:     regs,
		accounts: accounts,
		log:      log,
		notices:  notices,
	}
}

// ListEvents answers the full filtered collection as a bare array, newest
// first. No pagination.
func (s *service) ListEvents(c *gin.Context) {
	events := s.events.List(c.Query("category"), c.Query("q"))
	c.JSON(200, events)
}

func (s *service) GetEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		dto.NotFound(c, dto.MsgEventNotFound)
		return
	}
	event, err := s.events.Get(id)
	if err != nil {
		dto.NotFound(c, dto.MsgEventNotFound)
		return
	}
	c.JSON(200, event)
}

func (s *service) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse create event request")
		dto.BadRequest(c, dto.MsgInvalidJSON)
		return
	}

	if verr := validator.Validate(req); verr != nil {
		if missing := validator.MissingFields(verr); len(missing) > 0 {
			dto.MissingFieldsError(c, missing)
			return
		}
		dto.BadRequest(c, validator.Message(verr))
		return
	}

	created := s.events.Create(req.ToEvent())
	s.log.Info().Int("event_id", created.ID).Str("category", created.Category).Msg("event created")
	c.JSON(201, created)
}

func (s *service) DeleteEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		dto.NotFound(c, dto.MsgEventNotFound)
		return
	}
	if err := s.events.Delete(id); err != nil {
		dto.NotFound(c, dto.MsgEventNotFound)
		return
	}
	s.log.Info().Int("event_id", id).Msg("event deleted")
	c.JSON(200, dto.MessageResponse{Message: dto.MsgEventDeleted})
}

func (s *service) ListRegistrations(c *gin.Context) {
	raw := c.Query("eventId")
	if raw == "" {
		c.JSON(200, s.regs.List(0))
		return
	}
	eventID, err := strconv.Atoi(raw)
	if err != nil {
		// An unparseable filter matches nothing rather than failing.
		c.JSON(200, []model.Registration{})
		return
	}
	c.JSON(200, s.regs.List(eventID))
}

func (s *service) CreateRegistration(c *gin.Context) {
	var req dto.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse create registration request")
		dto.BadRequest(c, dto.MsgInvalidJSON)
		return
	}

	if verr := validator.Validate(req); verr != nil {
		if missing := validator.MissingFields(verr); len(missing) > 0 {
			dto.MissingFieldsError(c, missing)
			return
		}
		dto.BadRequest(c, validator.Message(verr))
		return
	}

	// Foreign-key style check, performed once at creation time only.
	if _, err := s.events.Get(req.EventID); err != nil {
		dto.NotFound(c, dto.MsgEventNotFoundForReg)
		return
	}

	created := s.regs.Create(req.ToRegistration())
	s.log.Info().Int64("registration_id", created.ID).Int("event_id", created.EventID).Msg("registration created")
	s.publishNotice(created)

	c.JSON(201, dto.RegistrationEnvelope{
		Message:      dto.MsgRegistrationSaved,
		Registration: *created,
	})
}

func (s *service) UpdateRegistrationStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, dto.MsgInvalidStatus)
		return
	}

	// The status check precedes the id lookup; an unparseable id can only
	// surface as not-found, and only for a valid status.
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	updated, err := s.regs.UpdateStatus(id, req.Status)
	switch {
	case errors.Is(err, repo.ErrInvalidStatus):
		dto.BadRequest(c, dto.MsgInvalidStatus)
		return
	case errors.Is(err, repo.ErrRegistrationNotFound):
		dto.NotFound(c, dto.MsgRegistrationNotFound)
		return
	case err != nil:
		s.log.Error().Err(err).Msg("failed to update registration status")
		dto.InternalServerError(c)
		return
	}

	s.log.Info().Int64("registration_id", updated.ID).Str("status", updated.Status).Msg("registration status updated")
	s.publishNotice(updated)

	c.JSON(200, dto.RegistrationEnvelope{
		Message:      dto.MsgRegistrationUpdated,
		Registration: *updated,
	})
}

func (s *service) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, dto.MsgInvalidJSON)
		return
	}
	if verr := validator.Validate(req); verr != nil {
		dto.BadRequest(c, "Please complete every field.")
		return
	}
	if len(req.Password) < 6 {
		dto.BadRequest(c, "Password must be at least 6 characters.")
		return
	}
	if req.Password != req.Confirm {
		dto.BadRequest(c, "Passwords do not match.")
		return
	}

	account := &model.Account{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Password:    req.Password,
		Role:        req.Role,
		SocialLinks: []string{},
	}
	if err := s.accounts.Create(account); err != nil {
		if errors.Is(err, repo.ErrAccountExists) {
			dto.Conflict(c, "An account with this email already exists. Please login instead.")
			return
		}
		s.log.Error().Err(err).Msg("failed to create account")
		dto.InternalServerError(c)
		return
	}

	s.log.Info().Str("email", account.Email).Str("role", account.Role).Msg("account created")
	c.JSON(201, dto.MessageResponse{Message: "Account created"})
}

func (s *service) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, dto.MsgInvalidJSON)
		return
	}
	if verr := validator.Validate(req); verr != nil {
		dto.BadRequest(c, "Please complete all fields.")
		return
	}

	account, err := s.accounts.GetByEmail(req.Email)
	if err != nil || account.Role != req.Role {
		dto.Unauthorized(c, "Invalid credentials. Please check your email, password, or role.")
		return
	}
	if account.Password != req.Password {
		dto.Unauthorized(c, "Incorrect password for this account.")
		return
	}

	c.JSON(200, dto.IdentityResponse{
		Role:       account.Role,
		Email:      account.Email,
		Name:       account.Name,
		Photo:      account.Photo,
		Department: account.Department,
		Year:       account.Year,
		Phone:      account.Phone,
	})
}

const maxSocialLinks = 3

func (s *service) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, dto.MsgInvalidJSON)
		return
	}
	if verr := validator.Validate(req); verr != nil {
		if missing := validator.MissingFields(verr); len(missing) > 0 {
			dto.MissingFieldsError(c, missing)
			return
		}
		dto.BadRequest(c, validator.Message(verr))
		return
	}

	links := req.SocialLinks.Values()
	if len(links) > maxSocialLinks {
		dto.BadRequest(c, "Up to 3 social links are allowed.")
		return
	}
	for _, link := range links {
		lower := strings.ToLower(link)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			dto.BadRequest(c, "Social links must start with http:// or https://")
			return
		}
	}

	account, err := s.accounts.GetByEmail(req.Email)
	if err != nil {
		dto.NotFound(c, "Account not found")
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		account.Name = name
	}
	account.Phone = strings.TrimSpace(req.Phone)
	account.Department = strings.TrimSpace(req.Department)
	account.Year = strings.TrimSpace(req.Year)
	account.Bio = strings.TrimSpace(req.Bio)
	account.Photo = strings.TrimSpace(req.Photo)
	account.SocialLinks = links

	updated, err := s.accounts.Update(account)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to update account")
		dto.InternalServerError(c)
		return
	}

	c.JSON(200, dto.IdentityResponse{
		Role:       updated.Role,
		Email:      updated.Email,
		Name:       updated.Name,
		Photo:      updated.Photo,
		Department: updated.Department,
		Year:       updated.Year,
		Phone:      updated.Phone,
	})
}

func (s *service) publishNotice(reg *model.Registration) {
	PublishNotice(s.notices, s.log, reg)
}

// PublishNotice hands a lifecycle notice to the queue. Failures are logged
// and dropped; notifications are best-effort and never block the response.
// A nil publisher means notifications are disabled.
func PublishNotice(pub NoticePublisher, log *zerolog.Logger, reg *model.Registration) {
	if pub == nil {
		return
	}
	msg := dto.RegistrationNoticeMessage{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		Status:         reg.Status,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal registration notice")
		return
	}
	if err := pub.Publish(payload); err != nil {
		log.Error().Err(err).Msg("failed to publish registration notice")
	}
}
