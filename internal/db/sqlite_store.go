package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/api"
	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

// SQLiteStore persists everything in one SQLite file. Question and answer
// lists are stored as JSON columns; the aggregation layer works on decoded
// records, never on SQL.
type SQLiteStore struct {
	db *sql.DB
}

var _ api.Store = (*SQLiteStore)(nil)

// Open opens (or creates) the database file, applies pragmas and runs the
// migrations.
func Open(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	store, err := NewSQLiteStore(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := RunMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

func NewSQLiteStore(conn *sql.DB) (*SQLiteStore, error) {
	if conn == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := conn.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: conn}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func encodeJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeQuestions(raw string) []models.Question {
	var out []models.Question
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Printf("sqlite store: decode questions: %v", err)
		return nil
	}
	return out
}

func decodeAnswers(raw string) []models.Answer {
	var out []models.Answer
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Printf("sqlite store: decode answers: %v", err)
		return nil
	}
	return out
}

func toNullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func (s *SQLiteStore) AddOrganisation(ctx context.Context, o *models.Organisation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO organisations (id, name, country, size, created_at) VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Country, o.Size, o.CreatedAt)
	return err
}

func (s *SQLiteStore) GetOrganisation(ctx context.Context, id string) (*models.Organisation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, country, size, created_at FROM organisations WHERE id = ?`, id)
	var o models.Organisation
	if err := row.Scan(&o.ID, &o.Name, &o.Country, &o.Size, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (s *SQLiteStore) FindOrganisation(ctx context.Context, name, country, size string) (*models.Organisation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, country, size, created_at FROM organisations WHERE name = ? AND country = ? AND size = ?`,
		name, country, size)
	var o models.Organisation
	if err := row.Scan(&o.ID, &o.Name, &o.Country, &o.Size, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

const userColumns = `id, organisation_id, fullname, email, phonenumber, role, password_hash, verified, otp, otp_expires, created_at, last_login_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var (
		u          models.User
		role       string
		otpExpires sql.NullTime
		lastLogin  sql.NullTime
	)
	err := row.Scan(&u.ID, &u.OrganisationID, &u.FullName, &u.Email, &u.PhoneNumber, &role,
		&u.PasswordHash, &u.Verified, &u.OTP, &otpExpires, &u.CreatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	if otpExpires.Valid {
		u.OTPExpires = otpExpires.Time
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}

func (s *SQLiteStore) AddUser(ctx context.Context, u *models.User) error {
	var lastLogin sql.NullTime
	if u.LastLoginAt != nil {
		lastLogin = sql.NullTime{Time: *u.LastLoginAt, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.OrganisationID, u.FullName, u.Email, u.PhoneNumber, string(u.Role),
		u.PasswordHash, u.Verified, u.OTP, toNullTime(u.OTPExpires), u.CreatedAt, lastLogin)
	return err
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (s *SQLiteStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, u *models.User) error {
	var lastLogin sql.NullTime
	if u.LastLoginAt != nil {
		lastLogin = sql.NullTime{Time: *u.LastLoginAt, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET fullname = ?, email = ?, phonenumber = ?, role = ?, password_hash = ?,
		 verified = ?, otp = ?, otp_expires = ?, last_login_at = ? WHERE id = ?`,
		u.FullName, u.Email, u.PhoneNumber, string(u.Role), u.PasswordHash,
		u.Verified, u.OTP, toNullTime(u.OTPExpires), lastLogin, u.ID)
	return err
}

func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) ListUsers(ctx context.Context, organisationID string) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE organisation_id = ? ORDER BY created_at`, organisationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

const surveyColumns = `id, organisation_id, title, description, questions, status, link_id, created_by, created_at`

func scanSurvey(row interface{ Scan(...interface{}) error }) (*models.Survey, error) {
	var (
		sv        models.Survey
		questions string
		status    string
	)
	err := row.Scan(&sv.ID, &sv.OrganisationID, &sv.Title, &sv.Description, &questions,
		&status, &sv.LinkID, &sv.CreatedBy, &sv.CreatedAt)
	if err != nil {
		return nil, err
	}
	sv.Questions = decodeQuestions(questions)
	sv.Status = models.SurveyStatus(status)
	return &sv, nil
}

func (s *SQLiteStore) AddSurvey(ctx context.Context, sv *models.Survey) error {
	questions, err := encodeJSON(sv.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO surveys (`+surveyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sv.ID, sv.OrganisationID, sv.Title, sv.Description, questions,
		string(sv.Status), sv.LinkID, sv.CreatedBy, sv.CreatedAt)
	return err
}

func (s *SQLiteStore) GetSurvey(ctx context.Context, id string) (*models.Survey, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+surveyColumns+` FROM surveys WHERE id = ?`, id)
	sv, err := scanSurvey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return sv, err
}

func (s *SQLiteStore) GetSurveyByLink(ctx context.Context, linkID string) (*models.Survey, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+surveyColumns+` FROM surveys WHERE link_id = ?`, linkID)
	sv, err := scanSurvey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return sv, err
}

func (s *SQLiteStore) UpdateSurvey(ctx context.Context, sv *models.Survey) error {
	questions, err := encodeJSON(sv.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE surveys SET title = ?, description = ?, questions = ?, status = ? WHERE id = ?`,
		sv.Title, sv.Description, questions, string(sv.Status), sv.ID)
	return err
}

func (s *SQLiteStore) DeleteSurvey(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM surveys WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) ListSurveys(ctx context.Context, organisationID string) ([]*models.Survey, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE organisation_id = ? ORDER BY created_at`, organisationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.Survey{}
	for rows.Next() {
		sv, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddResponse(ctx context.Context, r *models.Response) error {
	answers, err := encodeJSON(r.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO responses (id, organisation_id, survey_id, answers, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.OrganisationID, r.SurveyID, answers, r.CreatedAt)
	return err
}

func (s *SQLiteStore) listResponses(ctx context.Context, where string, arg interface{}) ([]*models.Response, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, organisation_id, survey_id, answers, created_at FROM responses WHERE `+where+` ORDER BY created_at`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.Response{}
	for rows.Next() {
		var (
			r       models.Response
			answers string
		)
		if err := rows.Scan(&r.ID, &r.OrganisationID, &r.SurveyID, &answers, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Answers = decodeAnswers(answers)
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListResponses(ctx context.Context, organisationID string) ([]*models.Response, error) {
	return s.listResponses(ctx, "organisation_id = ?", organisationID)
}

func (s *SQLiteStore) ListResponsesBySurvey(ctx context.Context, surveyID string) ([]*models.Response, error) {
	return s.listResponses(ctx, "survey_id = ?", surveyID)
}

func (s *SQLiteStore) AddFeedback(ctx context.Context, f *models.Feedback) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedbacks (id, organisation_id, message, category, sentiment, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.OrganisationID, f.Message, string(f.Category), string(f.Sentiment), f.CreatedAt)
	return err
}

func (s *SQLiteStore) GetFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, organisation_id, message, category, sentiment, created_at FROM feedbacks WHERE id = ?`, id)
	var (
		f         models.Feedback
		category  string
		sentiment string
	)
	if err := row.Scan(&f.ID, &f.OrganisationID, &f.Message, &category, &sentiment, &f.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	f.Category = models.Category(category)
	f.Sentiment = models.Sentiment(sentiment)
	return &f, nil
}

func (s *SQLiteStore) DeleteFeedback(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM feedbacks WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) ListFeedbacks(ctx context.Context, organisationID string) ([]*models.Feedback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, organisation_id, message, category, sentiment, created_at FROM feedbacks WHERE organisation_id = ? ORDER BY created_at`,
		organisationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*models.Feedback{}
	for rows.Next() {
		var (
			f         models.Feedback
			category  string
			sentiment string
		)
		if err := rows.Scan(&f.ID, &f.OrganisationID, &f.Message, &category, &sentiment, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Category = models.Category(category)
		f.Sentiment = models.Sentiment(sentiment)
		out = append(out, &f)
	}
	return out, rows.Err()
}
