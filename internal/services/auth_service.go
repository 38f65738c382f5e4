package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/PauloHFS/blog/internal/db"
	"github.com/PauloHFS/blog/internal/logging"
	"github.com/PauloHFS/blog/internal/metrics"
	"github.com/PauloHFS/blog/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

// UserStore é o subconjunto de queries usado pela autenticação.
type UserStore interface {
	CreateUser(ctx context.Context, arg db.CreateUserParams) (int64, error)
	GetUserByID(ctx context.Context, id int64) (db.User, error)
	GetUserByEmail(ctx context.Context, email string) (db.User, error)
	GetUserByUsername(ctx context.Context, username string) (db.User, error)
}

var _ UserStore = (*db.Queries)(nil)

type AuthService struct {
	users UserStore
	cost  int
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{
		users: users,
		cost:  bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type RegisterOutput struct {
	Success bool
	Error   string
	User    *db.User
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) RegisterOutput {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	validation := validator.ValidateRegistration(input.Username, input.Email, input.Password)
	if !validation.Valid {
		return RegisterOutput{Success: false, Error: validation.Messages()}
	}

	if _, err := s.users.GetUserByEmail(ctx, input.Email); err == nil {
		return RegisterOutput{Success: false, Error: "Este e-mail já está em uso"}
	}
	if _, err := s.users.GetUserByUsername(ctx, input.Username); err == nil {
		return RegisterOutput{Success: false, Error: "Este nome de usuário já está em uso"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return RegisterOutput{Success: false, Error: "Erro ao processar senha"}
	}

	id, err := s.users.CreateUser(ctx, db.CreateUserParams{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		logging.Get().ErrorContext(ctx, "failed to create user", "error", err)
		return RegisterOutput{Success: false, Error: "Erro ao criar usuário"}
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return RegisterOutput{Success: false, Error: "Erro interno"}
	}

	return RegisterOutput{Success: true, User: &user}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	Success bool
	Error   string
	User    *db.User
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) LoginOutput {
	if input.Email == "" || input.Password == "" {
		metrics.LoginAttempts.WithLabelValues("missing_credentials").Inc()
		return LoginOutput{Success: false, Error: "Email e senha são obrigatórios"}
	}

	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(input.Email)))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logging.Get().ErrorContext(ctx, "failed to load user", "error", err)
		}
		metrics.LoginAttempts.WithLabelValues("user_not_found").Inc()
		return LoginOutput{Success: false, Error: "Usuário ou senha inválidos"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		metrics.LoginAttempts.WithLabelValues("invalid_password").Inc()
		return LoginOutput{Success: false, Error: "Usuário ou senha inválidos"}
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return LoginOutput{Success: true, User: &user}
}
