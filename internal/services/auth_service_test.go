package services

import (
	"context"
	"testing"
	"time"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

// fakeAccountStore backs both the auth and user services in tests.
type fakeAccountStore struct {
	organisations map[string]*models.Organisation
	users         map[string]*models.User
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		organisations: map[string]*models.Organisation{},
		users:         map[string]*models.User{},
	}
}

func (s *fakeAccountStore) FindOrganisation(ctx context.Context, name, country, size string) (*models.Organisation, error) {
	for _, o := range s.organisations {
		if o.Name == name && o.Country == country && o.Size == size {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeAccountStore) AddOrganisation(ctx context.Context, o *models.Organisation) error {
	copied := *o
	s.organisations[o.ID] = &copied
	return nil
}

func (s *fakeAccountStore) GetOrganisation(ctx context.Context, id string) (*models.Organisation, error) {
	if o, ok := s.organisations[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeAccountStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeAccountStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeAccountStore) AddUser(ctx context.Context, u *models.User) error {
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *fakeAccountStore) UpdateUser(ctx context.Context, u *models.User) error {
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *fakeAccountStore) DeleteUser(ctx context.Context, id string) error {
	delete(s.users, id)
	return nil
}

func (s *fakeAccountStore) ListUsers(ctx context.Context, organisationID string) ([]*models.User, error) {
	out := []*models.User{}
	for _, u := range s.users {
		if u.OrganisationID == organisationID {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func stubSigner(uid, organisationID, role string, ttl time.Duration) (string, error) {
	return "token-" + uid, nil
}

func signupInput() SignupInput {
	return SignupInput{
		FullName:            "Ada Example",
		Email:               "Ada@Example.com",
		PhoneNumber:         "+250700000000",
		OrganisationName:    "Acme",
		OrganisationCountry: "Rwanda",
		OrganisationSize:    "11-50",
		Password:            "hunter22",
	}
}

func TestSignup(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAuthService(store, stubSigner)
	notified := ""
	svc.notify = func(email, subject, body string) { notified = email }

	user, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Fatalf("first user must be admin, got %s", user.Role)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email must be normalised, got %q", user.Email)
	}
	if user.Verified {
		t.Fatalf("new accounts start unverified")
	}
	if len(user.OTP) != 6 {
		t.Fatalf("expected a 6-digit OTP, got %q", user.OTP)
	}
	if notified != "ada@example.com" {
		t.Fatalf("OTP must be sent to the signup email, notified %q", notified)
	}
	if len(store.organisations) != 1 {
		t.Fatalf("signup must create the organisation")
	}
	if user.PasswordHash == "hunter22" {
		t.Fatalf("password must never be stored in clear")
	}
}

func TestSignupConflicts(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAuthService(store, stubSigner)

	if _, err := svc.Signup(context.Background(), signupInput()); err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	_, err := svc.Signup(context.Background(), signupInput())
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("duplicate organisation must conflict, got %v", err)
	}

	other := signupInput()
	other.OrganisationName = "Globex"
	_, err = svc.Signup(context.Background(), other)
	se, ok = AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("duplicate email must conflict, got %v", err)
	}
}

func TestSignupFreshOTPPerRequest(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAuthService(store, stubSigner)

	codes := map[string]bool{}
	record := func(uid string) {
		stored, _ := store.GetUser(context.Background(), uid)
		if len(stored.OTP) != 6 {
			t.Fatalf("expected a 6-digit code, got %q", stored.OTP)
		}
		codes[stored.OTP] = true
	}

	first, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	record(first.ID)

	other := signupInput()
	other.Email = "grace@example.com"
	other.OrganisationName = "Globex"
	second, err := svc.Signup(context.Background(), other)
	if err != nil {
		t.Fatalf("second Signup error: %v", err)
	}
	record(second.ID)

	// A few resends on top of the two signups; a code reused across
	// requests would leave a single entry in the set.
	for i := 0; i < 3; i++ {
		if err := svc.ResendOTP(context.Background(), first.ID); err != nil {
			t.Fatalf("ResendOTP error: %v", err)
		}
		record(first.ID)
	}
	if len(codes) < 2 {
		t.Fatalf("every signup and resend must generate its own code, saw only %v", codes)
	}
}

func TestVerifyOTP(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAuthService(store, stubSigner)
	user, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	if err := svc.VerifyOTP(context.Background(), user.Email, "000000"); err == nil {
		t.Fatalf("wrong code must be rejected")
	}
	stored, _ := store.GetUser(context.Background(), user.ID)
	if err := svc.VerifyOTP(context.Background(), user.Email, stored.OTP); err != nil {
		t.Fatalf("VerifyOTP error: %v", err)
	}
	stored, _ = store.GetUser(context.Background(), user.ID)
	if !stored.Verified || stored.OTP != "" {
		t.Fatalf("verification must clear the stored code: %+v", stored)
	}
	if err := svc.VerifyOTP(context.Background(), user.Email, "123456"); err == nil {
		t.Fatalf("verifying twice must fail")
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAuthService(store, stubSigner)
	user, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	stored, _ := store.GetUser(context.Background(), user.ID)

	svc.now = func() time.Time { return time.Now().UTC().Add(11 * time.Minute) }
	err = svc.VerifyOTP(context.Background(), user.Email, stored.OTP)
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorInvalid {
		t.Fatalf("expired code must be invalid, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	store := newFakeAccountStore()
	svc := NewAuthService(store, stubSigner)
	user, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	if _, err := svc.Login(context.Background(), user.Email, "wrong"); err == nil {
		t.Fatalf("wrong password must be rejected")
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "hunter22"); err == nil {
		t.Fatalf("unknown email must be rejected")
	}

	result, err := svc.Login(context.Background(), "ADA@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.Token != "token-"+user.ID {
		t.Fatalf("unexpected token: %q", result.Token)
	}
	if result.OrganisationName != "Acme" {
		t.Fatalf("login must resolve the organisation name, got %q", result.OrganisationName)
	}
	stored, _ := store.GetUser(context.Background(), user.ID)
	if stored.LastLoginAt == nil {
		t.Fatalf("login must record the login time")
	}
}
