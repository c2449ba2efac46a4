package main

import (
	"context"
	"errors"

	"github.com/indigo-web/rawhttp/http"
	"github.com/indigo-web/rawhttp/http/mime"
	"github.com/indigo-web/rawhttp/http/status"
	"github.com/indigo-web/rawhttp/router"
)

const helloPage = "<html><body><h1>Hello, world!</h1></body></html>"

func helloHandler() router.Handler {
	return router.Static(http.NewResponse().
		WithContentType(mime.HTML).
		WithString(helloPage),
	)
}

type user struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func echoUser(_ context.Context, request http.Request) (http.Response, error) {
	var u user
	if err := request.JSON(&u); err != nil {
		if errors.Is(err, status.ErrUnsupportedMediaType) {
			return http.Response{}, err
		}

		return http.Response{}, status.ErrBadRequest
	}

	if len(u.Name) == 0 {
		return http.Response{}, status.NewError(status.UnprocessableEntity, "user name is required")
	}

	return http.NewResponse().WithJSON(u)
}
