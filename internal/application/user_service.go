package application

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	repo "github.com/oksasatya/blogsphere/internal/domain/repository"
	"github.com/oksasatya/blogsphere/pkg/apperror"
	"github.com/oksasatya/blogsphere/pkg/helpers"
	"github.com/oksasatya/blogsphere/pkg/mailer"
	mailtpl "github.com/oksasatya/blogsphere/pkg/mailer/templates"
	"github.com/oksasatya/blogsphere/pkg/validation"
)

const (
	ResetTokenTTL     = 30 * time.Minute
	userSearchDefault = 10
)

// UserDeps groups the collaborators of UserService. Index, Jobs, Resets and
// Audit are optional.
type UserDeps struct {
	Users  repo.UserRepository
	Audit  repo.AuditRepository
	JWT    *helpers.JWTManager
	Images ImageStore
	Index  UserIndex
	Jobs   JobPublisher
	Resets ResetTokenStore
	Logger *logrus.Logger

	AppName         string
	DefaultAvatar   string
	ResetURL        string
	MailSendEnabled bool
}

type UserService struct {
	UserDeps
}

func NewUserService(d UserDeps) *UserService {
	return &UserService{UserDeps: d}
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *entity.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"-"`
}

type RegisterInput struct {
	Name     string `json:"name" form:"name" validate:"required,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Username string `json:"username" form:"username" validate:"required,max=50,excludesall=@/"`
	Password string `json:"password" form:"password" validate:"required,pwd"`
}

type LoginInput struct {
	Identifier string `json:"identifier" form:"identifier"`
	Username   string `json:"username" form:"username"`
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password" validate:"required"`
}

func (in LoginInput) identifier() string {
	for _, v := range []string{in.Identifier, in.Username, in.Email} {
		if s := normalize(v); s != "" {
			return s
		}
	}
	return ""
}

type UpdateProfileInput struct {
	Name     string `json:"name" form:"name" validate:"omitempty,max=100"`
	Username string `json:"username" form:"username" validate:"omitempty,max=50,excludesall=@/"`
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	Gender   string `json:"gender" form:"gender" validate:"omitempty,gender"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" form:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" form:"newPassword" validate:"required,pwd"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	NewPassword string `json:"newPassword" form:"newPassword" validate:"required,pwd"`
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *UserService) Register(ctx context.Context, who *entity.Identity, in RegisterInput) (*AuthResult, error) {
	in.Username = normalize(in.Username)
	in.Email = normalize(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.Users.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.Internal("failed to check existing user", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}
	u := &entity.User{
		Name:     in.Name,
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Avatar:   s.DefaultAvatar,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, apperror.Internal("failed to create user", err)
	}
	registrations.Add(1)

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}

	s.indexUser(ctx, u)
	s.enqueue(ctx, u.Email, mailtpl.Welcome, s.mailData(u))
	s.audit(ctx, who, u.ID, u.Email, "register", nil)
	return res, nil
}

func (s *UserService) Login(ctx context.Context, who *entity.Identity, in LoginInput) (*AuthResult, error) {
	id := in.identifier()
	if id == "" {
		return nil, apperror.Validation("invalid payload", map[string]string{"identifier": "username or email is required"})
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.Users.FindByUsernameOrEmail(ctx, id, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	if !helpers.PasswordMatches(u.Password, in.Password) {
		s.audit(ctx, who, u.ID, u.Email, "login_failed", nil)
		return nil, ErrInvalidCredentials
	}
	s.audit(ctx, who, u.ID, u.Email, "login", nil)
	return s.issue(u)
}

// Me returns the caller's own record.
func (s *UserService) Me(ctx context.Context, who *entity.Identity) (*entity.User, error) {
	if !who.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if who.User != nil {
		return who.User, nil
	}
	return s.currentUser(ctx, who)
}

func (s *UserService) UpdateProfile(ctx context.Context, who *entity.Identity, in UpdateProfileInput) (*entity.User, error) {
	if !who.Authenticated() {
		return nil, ErrUnauthenticated
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Username = normalize(in.Username)
	in.Email = normalize(in.Email)
	in.Gender = strings.ToUpper(strings.TrimSpace(in.Gender))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.currentUser(ctx, who)
	if err != nil {
		return nil, err
	}

	if in.Email != "" && in.Email != u.Email {
		if err := s.ensureFree(ctx, u.ID, s.Users.GetByEmail, in.Email, ErrEmailTaken); err != nil {
			return nil, err
		}
		u.Email = in.Email
	}
	if in.Username != "" && in.Username != u.Username {
		if err := s.ensureFree(ctx, u.ID, s.Users.GetByUsername, in.Username, ErrUsernameTaken); err != nil {
			return nil, err
		}
		u.Username = in.Username
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Gender != "" {
		u.Gender = in.Gender
	}

	if err := s.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, apperror.Internal("failed to update user", err)
	}
	s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) ensureFree(ctx context.Context, selfID string, lookup func(context.Context, string) (*entity.User, error), value string, taken *apperror.Error) error {
	other, err := lookup(ctx, value)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil
	case err != nil:
		return apperror.Internal("failed to check uniqueness", err)
	case other.ID != selfID:
		return taken
	}
	return nil
}

func (s *UserService) ChangePassword(ctx context.Context, who *entity.Identity, in ChangePasswordInput) error {
	if !who.Authenticated() {
		return ErrUnauthenticated
	}
	if err := validation.Struct(in); err != nil {
		return err
	}
	u, err := s.currentUser(ctx, who)
	if err != nil {
		return err
	}
	if !helpers.PasswordMatches(u.Password, in.OldPassword) {
		return ErrWrongPassword
	}
	if err := s.setPassword(ctx, u.ID, in.NewPassword); err != nil {
		return err
	}
	s.audit(ctx, who, u.ID, u.Email, "change_password", nil)
	return nil
}

// ChangeAvatar uploads the new image, points the user at it and then removes
// the previous avatar. A failed save deletes the freshly uploaded object.
func (s *UserService) ChangeAvatar(ctx context.Context, who *entity.Identity, file *ImageFile) (*entity.User, error) {
	if !who.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if file == nil || file.Reader == nil {
		return nil, ErrImageRequired
	}
	if err := helpers.ValidateImage(file.Filename, file.Size); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	u, err := s.currentUser(ctx, who)
	if err != nil {
		return nil, err
	}

	previous := u.Avatar
	var uploaded string
	err = runSteps(ctx,
		step{
			name: "upload avatar",
			do: func(ctx context.Context) error {
				url, err := s.Images.Upload(ctx, "avatars/"+u.ID, file.Reader, uuid.NewString()+filepath.Ext(file.Filename), contentTypeOf(file))
				uploaded = url
				return err
			},
			undo: func(ctx context.Context) error { return s.Images.Delete(ctx, uploaded) },
		},
		step{
			name: "save avatar",
			do: func(ctx context.Context) error {
				u.Avatar = uploaded
				return s.Users.Update(ctx, u)
			},
		},
		step{
			name: "delete previous avatar",
			do: func(ctx context.Context) error {
				if previous == "" || previous == uploaded || !s.Images.Owns(previous) {
					return nil
				}
				if err := s.Images.Delete(ctx, previous); err != nil {
					helpers.LogWarn(s.Logger, "delete previous avatar failed", err, logrus.Fields{"user_id": u.ID, "url": previous})
				}
				return nil
			},
		},
	)
	if err != nil {
		u.Avatar = previous
		return nil, apperror.Internal("failed to update avatar", err)
	}
	uploads.Add(1)
	s.indexUser(ctx, u)
	return u, nil
}

// ForgotPassword never reveals whether the email is registered.
func (s *UserService) ForgotPassword(ctx context.Context, who *entity.Identity, in ForgotPasswordInput) error {
	in.Email = normalize(in.Email)
	if err := validation.Struct(in); err != nil {
		return err
	}
	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.audit(ctx, who, "", in.Email, "reset_init_unknown", nil)
			return nil
		}
		return apperror.Internal("failed to load user", err)
	}
	if s.Resets == nil {
		return nil
	}

	tok, err := helpers.RandomToken(32)
	if err != nil {
		return apperror.Internal("token generation failed", err)
	}
	if err := s.Resets.Save(ctx, tok, u.ID); err != nil {
		return apperror.Internal("failed to store reset token", err)
	}

	data := s.mailData(u)
	data.ResetURL = s.ResetURL + "?token=" + tok
	data.ExpiresAtText = mailtpl.ExpiresIn(ResetTokenTTL)
	s.enqueue(ctx, u.Email, mailtpl.ResetPassword, data)
	s.audit(ctx, who, u.ID, u.Email, "reset_init_issue", nil)
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, who *entity.Identity, token string, in ResetPasswordInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if s.Resets == nil || token == "" {
		return ErrInvalidResetToken
	}
	uid, err := s.Resets.Consume(ctx, token)
	if err != nil {
		return apperror.Internal("failed to read reset token", err)
	}
	if uid == "" {
		return ErrInvalidResetToken
	}
	if err := s.setPassword(ctx, uid, in.NewPassword); err != nil {
		return err
	}
	s.audit(ctx, who, uid, "", "reset_confirm", nil)
	return nil
}

// SearchUsers queries the user index. Without an index it finds nothing.
func (s *UserService) SearchUsers(ctx context.Context, q string) ([]entity.Author, error) {
	q = strings.TrimSpace(q)
	if s.Index == nil || q == "" {
		return []entity.Author{}, nil
	}
	out, err := s.Index.Search(ctx, q, userSearchDefault)
	if err != nil {
		return nil, apperror.Internal("user search failed", err)
	}
	return out, nil
}

func (s *UserService) currentUser(ctx context.Context, who *entity.Identity) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, who.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	return u, nil
}

func (s *UserService) setPassword(ctx context.Context, userID, plain string) error {
	hash, err := helpers.HashPassword(plain)
	if err != nil {
		return apperror.Internal("failed to hash password", err)
	}
	if err := s.Users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return apperror.Internal("failed to update password", err)
	}
	return nil
}

func (s *UserService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.GenerateToken(helpers.UserClaims{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	})
	if err != nil {
		return nil, apperror.Internal("failed to issue token", err)
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}

func (s *UserService) mailData(u *entity.User) mailtpl.EmailData {
	return mailtpl.EmailData{AppName: s.AppName, Name: u.Name, Username: u.Username, Email: u.Email}
}

func (s *UserService) enqueue(ctx context.Context, to, template string, data mailtpl.EmailData) {
	if s.Jobs == nil || !s.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{To: to, Template: template, Data: data.ToMap()}
	if err := s.Jobs.PublishJSON(ctx, job); err != nil {
		helpers.LogWarn(s.Logger, "enqueue email failed", err, logrus.Fields{"template": template})
	}
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, u); err != nil {
		helpers.LogWarn(s.Logger, "index user failed", err, logrus.Fields{"user_id": u.ID})
	}
}

func (s *UserService) audit(ctx context.Context, who *entity.Identity, userID, email, action string, md map[string]any) {
	if s.Audit == nil {
		return
	}
	e := entity.AuditEntry{UserID: userID, Email: email, Action: action, Metadata: md}
	if who != nil {
		e.IP = who.IP
		e.UserAgent = who.UserAgent
	}
	if err := s.Audit.Insert(ctx, e); err != nil {
		helpers.LogWarn(s.Logger, "audit insert failed", err, logrus.Fields{"action": action})
	}
}

func contentTypeOf(f *ImageFile) string {
	if f.ContentType != "" && f.ContentType != "application/octet-stream" {
		return f.ContentType
	}
	return helpers.ImageContentType(f.Filename)
}
