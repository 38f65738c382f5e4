package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/PauloHFS/blog/internal/db"
	"github.com/PauloHFS/blog/internal/i18n"
	"github.com/PauloHFS/blog/internal/logging"
	"github.com/PauloHFS/blog/internal/policies"
	"github.com/PauloHFS/blog/internal/routes"
	"github.com/PauloHFS/blog/internal/services"
	"github.com/PauloHFS/blog/internal/view/pages"
)

func handleHome(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "post_list"))

	posts, err := deps.Posts.List(r.Context())
	if err != nil {
		return err
	}

	logging.AddToEvent(r.Context(), slog.Int("post_count", len(posts)))
	render(w, r, http.StatusOK, pages.Home(posts))
	return nil
}

func handlePostDetail(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "post_detail"))

	id, err := postID(r)
	if err != nil {
		return renderPostError(w, r, err)
	}

	entry, err := deps.Posts.Get(r.Context(), id)
	if err != nil {
		return renderPostError(w, r, err)
	}

	canEdit := policies.IsOwner(currentUser(r), entry.Post)
	render(w, r, http.StatusOK, pages.PostDetail(entry, canEdit))
	return nil
}

func handlePostNewForm(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "post_create_form"))

	if err := deps.Posts.AuthorizeCreate(currentUser(r)); err != nil {
		return renderPostError(w, r, err)
	}

	t := i18n.Get(r.Context())
	render(w, r, http.StatusOK, pages.PostForm(pages.PostFormData{
		Heading: t.NewPost,
		Action:  routes.PostNew,
		Cancel:  routes.Home,
	}))
	return nil
}

func handlePostCreate(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "post_create"))

	in := services.PostInput{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}

	post, err := deps.Posts.Create(r.Context(), currentUser(r), in)
	if err != nil {
		form := pages.PostFormData{
			Heading: i18n.Get(r.Context()).NewPost,
			Action:  routes.PostNew,
			Cancel:  routes.Home,
		}
		return renderFormError(w, r, err, form, in)
	}

	logging.AddToEvent(r.Context(),
		slog.String("outcome", "ok"),
		slog.Int64("post_id", post.ID),
	)
	http.Redirect(w, r, routes.PostDetail(post.ID), http.StatusSeeOther)
	return nil
}

func handlePostUpdateForm(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "post_update_form"))

	id, err := postID(r)
	if err != nil {
		if currentUser(r) == nil {
			err = services.ErrAuthenticationRequired
		}
		return renderPostError(w, r, err)
	}

	post, err := deps.Posts.AuthorizeMutation(r.Context(), currentUser(r), id, policies.ActionUpdate)
	if err != nil {
		return renderPostError(w, r, err)
	}

	render(w, r, http.StatusOK, pages.PostForm(updateForm(r, post.ID, post.Title, post.Content)))
	return nil
}

func handlePostUpdate(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "post_update"))

	in := services.PostInput{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}

	id, err := postID(r)
	if err != nil {
		// Sem id válido ainda exigimos login antes de responder 404.
		if currentUser(r) == nil {
			err = services.ErrAuthenticationRequired
		}
		return renderPostError(w, r, err)
	}

	post, err := deps.Posts.Update(r.Context(), currentUser(r), id, in)
	if err != nil {
		return renderFormError(w, r, err, updateForm(r, id, "", ""), in)
	}

	logging.AddToEvent(r.Context(), slog.String("outcome", "ok"))
	http.Redirect(w, r, routes.PostDetail(post.ID), http.StatusSeeOther)
	return nil
}

func handlePostDeleteConfirm(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "post_delete_form"))

	id, err := postID(r)
	if err != nil {
		if currentUser(r) == nil {
			err = services.ErrAuthenticationRequired
		}
		return renderPostError(w, r, err)
	}

	post, err := deps.Posts.AuthorizeMutation(r.Context(), currentUser(r), id, policies.ActionDelete)
	if err != nil {
		return renderPostError(w, r, err)
	}

	render(w, r, http.StatusOK, pages.PostConfirmDelete(db.PostEntry{Post: post}))
	return nil
}

func handlePostDelete(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "post_delete"))

	id, err := postID(r)
	if err != nil {
		if currentUser(r) == nil {
			err = services.ErrAuthenticationRequired
		}
		return renderPostError(w, r, err)
	}

	if err := deps.Posts.Delete(r.Context(), currentUser(r), id); err != nil {
		return renderPostError(w, r, err)
	}

	logging.AddToEvent(r.Context(), slog.String("outcome", "ok"))
	http.Redirect(w, r, routes.Home, http.StatusSeeOther)
	return nil
}

func updateForm(r *http.Request, id int64, title, content string) pages.PostFormData {
	return pages.PostFormData{
		Heading: i18n.Get(r.Context()).Edit,
		Action:  routes.PostUpdate(id),
		Cancel:  routes.PostDetail(id),
		Title:   title,
		Content: content,
	}
}

// renderFormError mostra o formulário de novo com 422 quando a entrada é
// inválida; os demais erros seguem o mapeamento padrão.
func renderFormError(w http.ResponseWriter, r *http.Request, err error, form pages.PostFormData, in services.PostInput) error {
	var invalid *services.InvalidPostError
	if !errors.As(err, &invalid) {
		return renderPostError(w, r, err)
	}

	logging.AddToEvent(r.Context(),
		slog.String("outcome", "invalid"),
		slog.String("error_reason", invalid.Result.Messages()),
	)

	form.Title = in.Title
	form.Content = in.Content
	form.TitleError = invalid.Result.FieldError("title")
	form.ContentError = invalid.Result.FieldError("content")
	render(w, r, http.StatusUnprocessableEntity, pages.PostForm(form))
	return nil
}
