package i18n

import (
	"context"

	"github.com/PauloHFS/blog/internal/contextkeys"
)

type Translation struct {
	Blog          string
	Home          string
	About         string
	NewPost       string
	Login         string
	Logout        string
	Email         string
	Username      string
	Password      string
	Register      string
	Title         string
	Content       string
	Save          string
	Edit          string
	Delete        string
	Cancel        string
	By            string
	NoPosts       string
	ConfirmDelete string
	AboutText     string
	Back          string
}

var ptBR = Translation{
	Blog:          "Blog",
	Home:          "Início",
	About:         "Sobre",
	NewPost:       "Novo post",
	Login:         "Entrar",
	Logout:        "Sair",
	Email:         "E-mail",
	Username:      "Usuário",
	Password:      "Senha",
	Register:      "Registrar",
	Title:         "Título",
	Content:       "Conteúdo",
	Save:          "Salvar",
	Edit:          "Editar",
	Delete:        "Excluir",
	Cancel:        "Cancelar",
	By:            "por",
	NoPosts:       "Nenhum post ainda.",
	ConfirmDelete: "Tem certeza que deseja excluir o post",
	AboutText:     "Um blog simples: qualquer um lê, só o autor edita ou exclui seus posts.",
	Back:          "Voltar",
}

var enUS = Translation{
	Blog:          "Blog",
	Home:          "Home",
	About:         "About",
	NewPost:       "New post",
	Login:         "Login",
	Logout:        "Logout",
	Email:         "Email",
	Username:      "Username",
	Password:      "Password",
	Register:      "Register",
	Title:         "Title",
	Content:       "Content",
	Save:          "Save",
	Edit:          "Edit",
	Delete:        "Delete",
	Cancel:        "Cancel",
	By:            "by",
	NoPosts:       "No posts yet.",
	ConfirmDelete: "Are you sure you want to delete the post",
	AboutText:     "A simple blog: anyone can read, only the author can edit or delete their posts.",
	Back:          "Back",
}

// Get retorna as traduções baseadas no idioma do contexto
func Get(ctx context.Context) Translation {
	locale, _ := ctx.Value(contextkeys.LocaleKey).(string)
	switch locale {
	case "en":
		return enUS
	default:
		return ptBR
	}
}
