package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PauloHFS/blog/internal/db"
	"github.com/PauloHFS/blog/internal/metrics"
	"github.com/PauloHFS/blog/internal/policies"
	"github.com/PauloHFS/blog/internal/validator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("post not found")
)

// InvalidPostError carrega as falhas de validação do formulário.
type InvalidPostError struct {
	Result validator.ValidationResult
}

func (e *InvalidPostError) Error() string {
	return "invalid post: " + e.Result.Messages()
}

// PostStore é a persistência de posts. *db.Queries satisfaz a interface.
type PostStore interface {
	ListPosts(ctx context.Context) ([]db.ListPostsRow, error)
	GetPost(ctx context.Context, id int64) (db.Post, error)
	GetPostEntry(ctx context.Context, id int64) (db.GetPostEntryRow, error)
	CreatePost(ctx context.Context, arg db.CreatePostParams) (int64, error)
	UpdatePost(ctx context.Context, arg db.UpdatePostParams) (int64, error)
	DeletePost(ctx context.Context, id int64) (int64, error)
}

var _ PostStore = (*db.Queries)(nil)

type PostInput struct {
	Title   string
	Content string
}

type PostService struct {
	store  PostStore
	now    func() time.Time
	tracer trace.Tracer
}

type PostServiceOption func(*PostService)

// WithClock substitui o relógio usado para date_posted.
func WithClock(now func() time.Time) PostServiceOption {
	return func(s *PostService) {
		s.now = now
	}
}

func NewPostService(store PostStore, opts ...PostServiceOption) *PostService {
	s := &PostService{
		store:  store,
		now:    time.Now,
		tracer: otel.Tracer("github.com/PauloHFS/blog/internal/services"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List retorna todos os posts, mais recentes primeiro.
func (s *PostService) List(ctx context.Context) (entries []db.PostEntry, err error) {
	ctx, finish := s.start(ctx, "list", nil)
	defer func() { finish(err) }()

	rows, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	entries = make([]db.PostEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.Entry())
	}
	return entries, nil
}

// Get resolve um post para exibição. Não exige autenticação.
func (s *PostService) Get(ctx context.Context, id int64) (entry db.PostEntry, err error) {
	ctx, finish := s.start(ctx, "get", nil, attribute.Int64("post.id", id))
	defer func() { finish(err) }()

	row, err := s.store.GetPostEntry(ctx, id)
	if err != nil {
		return db.PostEntry{}, notFound(err)
	}
	return row.Entry(), nil
}

// AuthorizeCreate verifica a pré-condição de criação sem persistir nada.
func (s *PostService) AuthorizeCreate(actor *db.User) error {
	if actor == nil {
		return ErrAuthenticationRequired
	}
	return nil
}

func (s *PostService) Create(ctx context.Context, actor *db.User, in PostInput) (post db.Post, err error) {
	ctx, finish := s.start(ctx, "create", actor)
	defer func() { finish(err) }()

	if err := s.AuthorizeCreate(actor); err != nil {
		return db.Post{}, err
	}

	in, err = normalize(in)
	if err != nil {
		return db.Post{}, err
	}

	post = db.Post{
		UserID:     actor.ID,
		Title:      in.Title,
		Content:    in.Content,
		DatePosted: s.now().UTC(),
	}
	id, err := s.store.CreatePost(ctx, db.CreatePostParams{
		UserID:     post.UserID,
		Title:      post.Title,
		Content:    post.Content,
		DatePosted: post.DatePosted,
	})
	if err != nil {
		return db.Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	post.ID = id
	return post, nil
}

// AuthorizeMutation aplica a mesma sequência de pré-condições de Update e
// Delete (autenticado, existe, é o autor) e devolve o post carregado.
func (s *PostService) AuthorizeMutation(ctx context.Context, actor *db.User, id int64, action string) (db.Post, error) {
	if actor == nil {
		return db.Post{}, ErrAuthenticationRequired
	}

	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return db.Post{}, notFound(err)
	}

	switch policies.Authorize(actor, post, action) {
	case policies.Allow:
		return post, nil
	case policies.AuthRequired:
		return db.Post{}, ErrAuthenticationRequired
	default:
		return db.Post{}, ErrForbidden
	}
}

func (s *PostService) Update(ctx context.Context, actor *db.User, id int64, in PostInput) (post db.Post, err error) {
	ctx, finish := s.start(ctx, "update", actor, attribute.Int64("post.id", id))
	defer func() { finish(err) }()

	post, err = s.AuthorizeMutation(ctx, actor, id, policies.ActionUpdate)
	if err != nil {
		return db.Post{}, err
	}

	in, err = normalize(in)
	if err != nil {
		return db.Post{}, err
	}

	// O autor é reafirmado com o ator atual; a guarda já garantiu a igualdade.
	post.Title = in.Title
	post.Content = in.Content
	post.UserID = actor.ID

	n, err := s.store.UpdatePost(ctx, db.UpdatePostParams{
		Title:   post.Title,
		Content: post.Content,
		UserID:  post.UserID,
		ID:      post.ID,
	})
	if err != nil {
		return db.Post{}, fmt.Errorf("failed to update post: %w", err)
	}
	if n == 0 {
		return db.Post{}, ErrNotFound
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, actor *db.User, id int64) (err error) {
	ctx, finish := s.start(ctx, "delete", actor, attribute.Int64("post.id", id))
	defer func() { finish(err) }()

	if _, err := s.AuthorizeMutation(ctx, actor, id, policies.ActionDelete); err != nil {
		return err
	}

	n, err := s.store.DeletePost(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func normalize(in PostInput) (PostInput, error) {
	if result := validator.ValidatePost(in.Title, in.Content); !result.Valid {
		return in, &InvalidPostError{Result: result}
	}
	return PostInput{
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
	}, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to load post: %w", err)
}

// Outcome classifica o erro de uma operação para métricas e logs.
func Outcome(err error) string {
	var invalid *InvalidPostError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuthenticationRequired):
		return "auth_required"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &invalid):
		return "invalid"
	default:
		return "error"
	}
}

func (s *PostService) start(ctx context.Context, op string, actor *db.User, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	if actor != nil {
		attrs = append(attrs, attribute.Int64("actor.id", actor.ID))
	}
	ctx, span := s.tracer.Start(ctx, "posts."+op, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		outcome := Outcome(err)
		span.SetAttributes(attribute.String("outcome", outcome))
		if outcome == "error" {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metrics.PostOperations.WithLabelValues(op, outcome).Inc()
	}
}
