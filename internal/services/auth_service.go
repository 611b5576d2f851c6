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

type AuthStore interface {
	FindOrganisation(ctx context.Context, name, country, size string) (*models.Organisation, error)
	AddOrganisation(ctx context.Context, o *models.Organisation) error
	GetOrganisation(ctx context.Context, id string) (*models.Organisation, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	AddUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
}

// TokenSigner signs an access token for the given user/organisation/role.
type TokenSigner func(uid, organisationID, role string, ttl time.Duration) (string, error)

// Notifier delivers a message to a user out of band. Delivery itself is an
// external concern; the default just logs.
type Notifier func(email, subject, body string)

const otpTTL = 10 * time.Minute

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	idGen     func() string
	signToken TokenSigner
	notify    Notifier
	tokenTTL  time.Duration
}

func NewAuthService(store AuthStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     uuid.NewString,
		signToken: signer,
		notify: func(email, subject, body string) {
			log.Printf("notify %s: %s", email, subject)
		},
		tokenTTL: 7 * 24 * time.Hour,
	}
}

// generateOTP produces a fresh 6-digit code. Called once per signup/resend
// request; no code is ever shared between requests.
func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failing means the platform is broken; fall back to a
		// time-derived code rather than a constant.
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// SignupInput carries the already-validated signup payload.
type SignupInput struct {
	FullName            string
	Email               string
	PhoneNumber         string
	OrganisationName    string
	OrganisationCountry string
	OrganisationSize    string
	Password            string
}

// Signup creates a new organisation together with its first admin user and
// sends the admin a verification code. The organisation triple must not
// already exist; joining an existing organisation goes through user invites.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, NewInvalidError("All fields are required")
	}
	if len(input.Password) < 6 {
		return nil, NewInvalidError("Password must be at least 6 characters long")
	}

	existing, err := s.store.FindOrganisation(ctx, input.OrganisationName, input.OrganisationCountry, input.OrganisationSize)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	if existing != nil {
		return nil, NewConflictError("Organisation already exists, ask your admin to add you to the organisation")
	}
	if u, err := s.store.FindUserByEmail(ctx, email); err != nil {
		return nil, NewDataUnavailableError(err)
	} else if u != nil {
		return nil, NewConflictError("Email already exists")
	}

	organisation := &models.Organisation{
		ID:        s.idGen(),
		Name:      input.OrganisationName,
		Country:   input.OrganisationCountry,
		Size:      input.OrganisationSize,
		CreatedAt: s.now(),
	}
	if err := s.store.AddOrganisation(ctx, organisation); err != nil {
		return nil, NewDataUnavailableError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	otp := generateOTP()
	user := &models.User{
		ID:             s.idGen(),
		OrganisationID: organisation.ID,
		FullName:       input.FullName,
		Email:          email,
		PhoneNumber:    input.PhoneNumber,
		Role:           models.RoleAdmin,
		PasswordHash:   string(hash),
		Verified:       false,
		OTP:            otp,
		OTPExpires:     s.now().Add(otpTTL),
		CreatedAt:      s.now(),
	}
	if err := s.store.AddUser(ctx, user); err != nil {
		return nil, NewDataUnavailableError(err)
	}
	s.notify(email, "Verify your account", fmt.Sprintf("Your OTP is %s. It is valid for 10 minutes.", otp))
	return user, nil
}

// VerifyOTP checks the code sent to the user's email and marks the account
// verified. The stored code is cleared on success.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	user, err := s.store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return NewDataUnavailableError(err)
	}
	if user == nil {
		return NewNotFoundError("User not found")
	}
	if user.Verified {
		return NewConflictError("Already verified")
	}
	if user.OTP == "" || user.OTP != code {
		return NewInvalidError("Invalid OTP")
	}
	if s.now().After(user.OTPExpires) {
		return NewInvalidError("OTP expired")
	}
	user.Verified = true
	user.OTP = ""
	user.OTPExpires = time.Time{}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return NewDataUnavailableError(err)
	}
	return nil
}

// ResendOTP issues a fresh code for an unverified user, replacing any
// previous one.
func (s *AuthService) ResendOTP(ctx context.Context, userID string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return NewDataUnavailableError(err)
	}
	if user == nil {
		return NewNotFoundError("User not found")
	}
	if user.Verified {
		return NewConflictError("User already verified")
	}
	otp := generateOTP()
	user.OTP = otp
	user.OTPExpires = s.now().Add(otpTTL)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return NewDataUnavailableError(err)
	}
	s.notify(user.Email, "Your new OTP code", fmt.Sprintf("Your new OTP is: %s. It expires in 10 minutes.", otp))
	return nil
}

// AuthResult is a successful login: the signed token plus the profile the
// frontend shows.
type AuthResult struct {
	Token            string       `json:"-"`
	User             *models.User `json:"user"`
	OrganisationName string       `json:"organisationName"`
}

// Login checks credentials, records the login time and signs an access
// token carrying the user's organisation scope and role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	if user == nil {
		return nil, NewUnauthorizedError("Incorrect email or password!")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, NewUnauthorizedError("Incorrect email or password!")
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, NewDataUnavailableError(err)
	}

	token, err := s.signToken(user.ID, user.OrganisationID, string(user.Role), s.tokenTTL)
	if err != nil {
		return nil, err
	}
	organisationName := ""
	if org, err := s.store.GetOrganisation(ctx, user.OrganisationID); err == nil && org != nil {
		organisationName = org.Name
	}
	return &AuthResult{Token: token, User: user, OrganisationName: organisationName}, nil
}
