package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
)

const (
	maxPasswordLength = 128
	minPasswordLength = 8
	maxEmailLength    = 254
	minUsernameLength = 3
	maxUsernameLength = 150
	MaxTitleLength    = 100
)

func init() {
	validate = validator.New()
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Messages junta as mensagens de erro em uma única linha.
func (r ValidationResult) Messages() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, " ")
}

// FieldError returns the first message for field, or "".
func (r ValidationResult) FieldError(field string) string {
	for _, e := range r.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

func Validate(s any) error {
	return validate.Struct(s)
}

type postInput struct {
	Title   string `validate:"required,max=100"`
	Content string `validate:"required"`
}

var postMessages = map[string]string{
	"Title.required":   "título é obrigatório",
	"Title.max":        fmt.Sprintf("título muito longo (máximo %d caracteres)", MaxTitleLength),
	"Content.required": "conteúdo é obrigatório",
}

// ValidatePost valida o formulário de post. Espaços nas pontas são ignorados.
func ValidatePost(title, content string) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []ValidationError{}}

	err := Validate(postInput{
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
	})
	if err == nil {
		return result
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{Field: "form", Message: err.Error()})
		return result
	}

	for _, fe := range verrs {
		msg, ok := postMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s inválido", strings.ToLower(fe.Field()))
		}
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: msg,
		})
	}
	return result
}

func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email é obrigatório")
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("email muito longo (máximo %d caracteres)", maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("formato de email inválido")
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("senha é obrigatória")
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("senha deve ter pelo menos %d caracteres", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("senha muito longa (máximo %d caracteres)", maxPasswordLength)
	}
	return nil
}

func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("nome de usuário é obrigatório")
	}
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf("nome de usuário deve ter entre %d e %d caracteres", minUsernameLength, maxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("nome de usuário aceita apenas letras, números, '.', '-' e '_'")
	}
	return nil
}

func ValidateRegistration(username, email, password string) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []ValidationError{}}

	if err := ValidateUsername(username); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{Field: "username", Message: err.Error()})
	}

	if err := ValidateEmail(email); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{Field: "email", Message: err.Error()})
	}

	if err := ValidatePassword(password); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{Field: "password", Message: err.Error()})
	}

	return result
}
