package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, organisationID string) ([]*models.User, error)
	AddUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// UserService manages the members of an organisation. Admins invite users
// with a generated temporary password instead of an open signup flow.
type UserService struct {
	store  UserStore
	now    func() time.Time
	idGen  func() string
	notify Notifier
}

func NewUserService(store UserStore) *UserService {
	return &UserService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: uuid.NewString,
		notify: func(email, subject, body string) {
			log.Printf("notify %s: %s", email, subject)
		},
	}
}

const tempPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateTempPassword returns a random 12-character password for invited
// users. They are expected to change it after first login.
func generateTempPassword() string {
	buf := make([]byte, 12)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordAlphabet))))
		if err != nil {
			return uuid.NewString()[:12]
		}
		buf[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(buf)
}

// InviteInput carries the payload for adding a user to an organisation.
type InviteInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Role        string
}

// Invite creates a user inside the caller's organisation with a generated
// temporary password and mails it to them. Invited accounts skip OTP
// verification.
func (s *UserService) Invite(ctx context.Context, organisationID string, input InviteInput) (*models.User, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.FullName == "" || email == "" {
		return nil, NewInvalidError("Fullname and email are required")
	}
	role := models.Role(input.Role)
	if input.Role == "" {
		role = models.RoleResearcher
	} else if !models.ValidRole(input.Role) {
		return nil, NewInvalidError("Invalid role")
	}
	if existing, err := s.store.FindUserByEmail(ctx, email); err != nil {
		return nil, NewDataUnavailableError(err)
	} else if existing != nil {
		return nil, NewConflictError("Email already exists")
	}

	password := generateTempPassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:             s.idGen(),
		OrganisationID: organisationID,
		FullName:       input.FullName,
		Email:          email,
		PhoneNumber:    input.PhoneNumber,
		Role:           role,
		PasswordHash:   string(hash),
		Verified:       true,
		CreatedAt:      s.now(),
	}
	if err := s.store.AddUser(ctx, user); err != nil {
		return nil, NewDataUnavailableError(err)
	}
	s.notify(email, "You have been added to an organisation",
		fmt.Sprintf("Your temporary password is: %s. Please change it after logging in.", password))
	return user, nil
}

// List returns every member of the organisation.
func (s *UserService) List(ctx context.Context, organisationID string) ([]*models.User, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	users, err := s.store.ListUsers(ctx, organisationID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	return users, nil
}

// UpdateInput holds the editable fields of a user. Nil means leave as is.
type UpdateUserInput struct {
	FullName    *string
	PhoneNumber *string
	Role        *string
}

// Update edits a member of the caller's organisation.
func (s *UserService) Update(ctx context.Context, organisationID, userID string, input UpdateUserInput) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	if user == nil {
		return nil, NewNotFoundError("User not found")
	}
	if user.OrganisationID != organisationID {
		return nil, NewForbiddenError("You do not have access to this user")
	}
	if input.FullName != nil {
		if *input.FullName == "" {
			return nil, NewInvalidError("Fullname cannot be empty")
		}
		user.FullName = *input.FullName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.Role != nil {
		if !models.ValidRole(*input.Role) {
			return nil, NewInvalidError("Invalid role")
		}
		user.Role = models.Role(*input.Role)
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, NewDataUnavailableError(err)
	}
	return user, nil
}

// Delete removes a member from the caller's organisation. An admin cannot
// delete themselves.
func (s *UserService) Delete(ctx context.Context, organisationID, userID, callerID string) error {
	if userID == callerID {
		return NewInvalidError("You cannot delete your own account")
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return NewDataUnavailableError(err)
	}
	if user == nil {
		return NewNotFoundError("User not found")
	}
	if user.OrganisationID != organisationID {
		return NewForbiddenError("You do not have access to this user")
	}
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return NewDataUnavailableError(err)
	}
	return nil
}
