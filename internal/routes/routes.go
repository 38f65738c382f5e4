package routes

import (
	"net/url"
	"strconv"
)

const (
	Home     = "/"
	About    = "/about"
	Login    = "/login"
	Logout   = "/logout"
	Register = "/register"
	PostNew  = "/post/new"
	Health   = "/health"
	Metrics  = "/metrics"
)

func PostDetail(id int64) string {
	return "/post/" + strconv.FormatInt(id, 10)
}

func PostUpdate(id int64) string {
	return PostDetail(id) + "/update"
}

func PostDelete(id int64) string {
	return PostDetail(id) + "/delete"
}

// LoginNext monta o link de login que volta para next após autenticar.
func LoginNext(next string) string {
	if next == "" {
		return Login
	}
	return Login + "?next=" + url.QueryEscape(next)
}
